package progression

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/skysquad/skysquad/pkg/repositories"
	"github.com/skysquad/skysquad/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{249, 1},
		{250, 2},
		{700, 4},
		{999, 4},
		{1000, 6},
		{1749, 6},
		{1750, 7},
		{3250, 10},
		{999999, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestNextLevelXP(t *testing.T) {
	assert.Equal(t, 100, NextLevelXP(0))
	assert.Equal(t, 1750, NextLevelXP(6))
	assert.Equal(t, -1, NextLevelXP(10))
	assert.Equal(t, -1, NextLevelXP(42))
}

type testService struct {
	service    *Service
	repository repositories.Repository
	user       *models.User
	now        time.Time
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	ctx := context.Background()

	repository, err := repositories.NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := repository.Close(ctx); err != nil {
			t.Errorf("failed to close repository: %v", err)
		}
	})

	user, err := repository.CreateUser(ctx, "rosa", "rosa@example.com", "hash")
	require.NoError(t, err)

	ts := &testService{
		repository: repository,
		user:       user,
		now:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	ts.service = NewService(NewServiceOptions{
		Repository: repository,
		Rng:        rand.New(rand.NewSource(1)),
		Now:        func() time.Time { return ts.now },
	})
	return ts
}

func TestService_AddExperience(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	newXP, newLevel, unlocked, err := ts.service.AddExperience(ctx, ts.user.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, newXP)
	assert.Equal(t, 0, newLevel)
	assert.Empty(t, unlocked)

	newXP, newLevel, unlocked, err = ts.service.AddExperience(ctx, ts.user.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 100, newXP)
	assert.Equal(t, 1, newLevel)
	assert.Empty(t, unlocked)
}

func TestService_AddExperienceUnlocksLevelAchievement(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	_, newLevel, unlocked, err := ts.service.AddExperience(ctx, ts.user.ID, 1000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, newLevel, 5)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "level_5", unlocked[0].ID)
}

func TestService_UnlockAchievementIsIdempotent(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	achievement, err := ts.service.UnlockAchievement(ctx, ts.user.ID, "first_star")
	require.NoError(t, err)
	require.NotNil(t, achievement)
	assert.Equal(t, "first_star", achievement.ID)

	achievement, err = ts.service.UnlockAchievement(ctx, ts.user.ID, "first_star")
	require.NoError(t, err)
	assert.Nil(t, achievement, "a second unlock returns nothing")

	_, err = ts.service.UnlockAchievement(ctx, ts.user.ID, "no_such_achievement")
	assert.Error(t, err)
}

func TestService_TrackStarCollection(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	unlocked, err := ts.service.TrackStarCollection(ctx, ts.user.ID, 1)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_star", unlocked[0].ID)

	// Nine more stars reaches the ten star achievement.
	for i := 0; i < 8; i++ {
		_, err := ts.service.TrackStarCollection(ctx, ts.user.ID, 1)
		require.NoError(t, err)
	}
	unlocked, err = ts.service.TrackStarCollection(ctx, ts.user.ID, 1)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "collector_10", unlocked[0].ID)

	user, err := ts.repository.GetUser(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, user.TotalStars)
	assert.Equal(t, 0, user.SpecialStars)
}

func TestService_TrackStarCollectionCountsSpecials(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	_, err := ts.service.TrackStarCollection(ctx, ts.user.ID, 5)
	require.NoError(t, err)

	user, err := ts.repository.GetUser(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.TotalStars)
	assert.Equal(t, 1, user.SpecialStars)
}

func TestService_UpdateLoginStreak(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	streak, _, err := ts.service.UpdateLoginStreak(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	// Same day, streak unchanged.
	ts.now = ts.now.Add(2 * time.Hour)
	streak, _, err = ts.service.UpdateLoginStreak(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	// Next day extends the streak.
	ts.now = ts.now.Add(24 * time.Hour)
	streak, _, err = ts.service.UpdateLoginStreak(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)

	// Third consecutive day unlocks the streak achievement.
	ts.now = ts.now.Add(24 * time.Hour)
	streak, unlocked, err := ts.service.UpdateLoginStreak(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "streak_3", unlocked[0].ID)

	// A missed day resets the streak.
	ts.now = ts.now.Add(72 * time.Hour)
	streak, _, err = ts.service.UpdateLoginStreak(ctx, ts.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestChallenge_RemainingHours(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	challenge := &Challenge{EndTime: now.Add(6 * time.Hour)}

	assert.InDelta(t, 6.0, challenge.RemainingHours(now), 1e-9)
	assert.Equal(t, 0.0, challenge.RemainingHours(now.Add(7*time.Hour)), "never negative")
}

func TestService_ActiveChallenges(t *testing.T) {
	ts := newTestService(t)

	challenges := ts.service.ActiveChallenges()
	require.Len(t, challenges, DailyChallengeCount)
	for _, challenge := range challenges {
		assert.False(t, challenge.IsExpired(ts.now))
		assert.Greater(t, challenge.Goal, 0)
	}

	// After expiry a fresh set is generated.
	ts.now = ts.now.Add(25 * time.Hour)
	refreshed := ts.service.ActiveChallenges()
	require.Len(t, refreshed, DailyChallengeCount)
	assert.NotEqual(t, challenges[0].ID, refreshed[0].ID)
}

func TestService_UserProgress(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	_, err := ts.service.TrackStarCollection(ctx, ts.user.ID, 5)
	require.NoError(t, err)

	progress, err := ts.service.UserProgress(ctx, ts.user.ID)
	require.NoError(t, err)

	assert.Equal(t, ts.user.ID, progress.UserID)
	assert.Equal(t, 1, progress.TotalStars)
	assert.Equal(t, 1, progress.SpecialStars)
	require.Len(t, progress.Challenges, DailyChallengeCount)
	for _, challenge := range progress.Challenges {
		assert.InDelta(t, 24.0, challenge.RemainingHours, 1e-9)
	}
	require.Len(t, progress.UnlockedAchievements, 1)
	assert.Equal(t, "first_star", progress.UnlockedAchievements[0].ID)
	assert.Equal(t, 100/len(Achievements), progress.AchievementPercentage)
	assert.Equal(t, 100, progress.NextLevelXP)
}
