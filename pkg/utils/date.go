package utils

import (
	"log"
	"time"
)

// TimeNowKST returns the current time in Korea Standard Time. All trading
// windows and volume buckets are evaluated on this clock.
func TimeNowKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}
