package models

import "time"

// User is a registered player. Planes can also fly as guests, in which
// case no user row exists and no progression is tracked.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Experience   int       `json:"experience"`
	Level        int       `json:"level"`
	TotalStars   int       `json:"totalStars"`
	SpecialStars int       `json:"specialStars"`
	LoginStreak  int       `json:"loginStreak"`
	LastLogin    time.Time `json:"lastLogin"`
	CreatedAt    time.Time `json:"createdAt"`
}
