package dto

// LoginRequest is the student/teacher login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo is the user payload returned by auth and user endpoints.
type UserInfo struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	UserType        string `json:"user_type,omitempty"`
	Cash            int64  `json:"cash"`
	PasswordChanged bool   `json:"password_changed"`
}

// LoginResponse wraps the authenticated user.
type LoginResponse struct {
	User UserInfo `json:"user"`
}

// AdminLoginRequest is the admin login payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminInfo is the admin payload returned by admin login.
type AdminInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// AdminLoginResponse wraps the authenticated admin.
type AdminLoginResponse struct {
	Admin AdminInfo `json:"admin"`
}

// RegisterRequest is the student sign-up payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	UserID      uint   `json:"userId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is a generic success payload.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
