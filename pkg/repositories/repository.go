package repositories

import (
	"context"
	"time"

	"github.com/skysquad/skysquad/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	CreateUser(ctx context.Context, username string, email string, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProgression(ctx context.Context, userID string, experience int, level int) error
	UpdateUserStars(ctx context.Context, userID string, totalStars int, specialStars int) error
	UpdateUserLoginStreak(ctx context.Context, userID string, streak int, lastLogin time.Time) error
	// UnlockAchievement records an achievement for a user. It returns
	// false if the user already had it.
	UnlockAchievement(ctx context.Context, userID string, achievementID string) (bool, error)
	ListUnlockedAchievements(ctx context.Context, userID string) ([]string, error)
	// GetChallengeProgress returns 0 for a challenge the user has no
	// progress on.
	GetChallengeProgress(ctx context.Context, userID string, challengeID string) (int, error)
	AddChallengeProgress(ctx context.Context, userID string, challengeID string, delta int) error
}
