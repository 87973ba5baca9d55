package entity

import (
	"time"
)

// UserType distinguishes student and teacher accounts.
type UserType string

const (
	UserTypeStudent UserType = "STUDENT"
	UserTypeTeacher UserType = "TEACHER"
)

// User is a student or teacher participant with simulated cash.
type User struct {
	ID              uint      `gorm:"primaryKey"`
	Username        string    `gorm:"uniqueIndex;not null"`
	Password        string    `gorm:"not null"`
	Name            string    `gorm:"not null"`
	UserType        UserType  `gorm:"not null;default:STUDENT"`
	Cash            int64     `gorm:"not null"`
	PasswordChanged bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// Admin is an operator account allowed to set prices and post news.
type Admin struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
