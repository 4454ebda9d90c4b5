package progression

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/repositories"
)

// levelThresholds is the total experience required per level.
var levelThresholds = []int{0, 100, 250, 450, 700, 1000, 1000, 1750, 2200, 2700, 3250}

// CalculateLevel returns the level reached with the given total XP.
func CalculateLevel(xp int) int {
	level := 0
	for level < len(levelThresholds)-1 && xp >= levelThresholds[level+1] {
		level++
	}
	return level
}

// NextLevelXP returns the total XP required for the next level,
// or -1 when the maximum level has been reached.
func NextLevelXP(level int) int {
	if level >= len(levelThresholds)-1 {
		return -1
	}
	return levelThresholds[level+1]
}

// Service manages player experience, levels, achievements and daily
// challenges. It is safe for concurrent use.
type Service struct {
	repository repositories.Repository
	rng        *rand.Rand
	now        func() time.Time

	challengesLock   sync.Mutex
	activeChallenges []*Challenge
}

type NewServiceOptions struct {
	Repository repositories.Repository
	Rng        *rand.Rand
	// Now is the clock used for streaks and challenge expiry.
	// Defaults to time.Now.
	Now func() time.Time
}

func NewService(opts NewServiceOptions) *Service {
	s := &Service{
		repository: opts.Repository,
		rng:        opts.Rng,
		now:        opts.Now,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.activeChallenges = s.generateDailyChallenges(DailyChallengeCount)
	log.Info("Generated %d daily challenges", len(s.activeChallenges))
	return s
}

// AchievementCatalog returns all defined achievements.
func (s *Service) AchievementCatalog() []Achievement {
	return Achievements
}

// ActiveChallenges returns the current challenges, regenerating the set
// if any challenge has expired.
func (s *Service) ActiveChallenges() []*Challenge {
	s.challengesLock.Lock()
	defer s.challengesLock.Unlock()

	expired := len(s.activeChallenges) == 0
	for _, c := range s.activeChallenges {
		if c.IsExpired(s.now()) {
			expired = true
			break
		}
	}
	if expired {
		s.activeChallenges = s.generateDailyChallenges(DailyChallengeCount)
		log.Info("Refreshed daily challenges")
	}

	challenges := make([]*Challenge, len(s.activeChallenges))
	copy(challenges, s.activeChallenges)
	return challenges
}

// AddExperience adds XP to a player and unlocks level achievements on
// level up. It returns the new total XP, the new level and any newly
// unlocked achievements.
func (s *Service) AddExperience(ctx context.Context, userID string, amount int) (int, int, []Achievement, error) {
	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("failed to get user: %v", err)
	}

	newXP := user.Experience + amount
	newLevel := CalculateLevel(newXP)

	if err := s.repository.UpdateUserProgression(ctx, userID, newXP, newLevel); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to update user progression: %v", err)
	}

	var unlocked []Achievement
	if newLevel > user.Level {
		log.Info("Player %s leveled up from %d to %d", userID, user.Level, newLevel)
		if newLevel >= 5 {
			unlocked = s.appendUnlock(ctx, userID, "level_5", unlocked)
		}
		if newLevel >= 10 {
			unlocked = s.appendUnlock(ctx, userID, "level_10", unlocked)
		}
	}

	return newXP, newLevel, unlocked, nil
}

// UnlockAchievement records an achievement for a user and credits its
// points as experience. It returns nil if the user already had it.
func (s *Service) UnlockAchievement(ctx context.Context, userID string, achievementID string) (*Achievement, error) {
	achievement := findAchievement(achievementID)
	if achievement == nil {
		return nil, fmt.Errorf("unknown achievement: %s", achievementID)
	}

	newlyUnlocked, err := s.repository.UnlockAchievement(ctx, userID, achievementID)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock achievement: %v", err)
	}
	if !newlyUnlocked {
		return nil, nil
	}

	// Achievement points count towards experience. Level achievements
	// are deliberately not re-checked here to avoid unlock cascades.
	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	newXP := user.Experience + achievement.Points
	if err := s.repository.UpdateUserProgression(ctx, userID, newXP, CalculateLevel(newXP)); err != nil {
		return nil, fmt.Errorf("failed to update user progression: %v", err)
	}

	log.Info("Player %s unlocked achievement %q (+%d points)", userID, achievement.Title, achievement.Points)
	return achievement, nil
}

// TrackStarCollection updates a player's star counters, unlocks any
// earned collection achievements and advances collection challenges.
func (s *Service) TrackStarCollection(ctx context.Context, userID string, starValue int) ([]Achievement, error) {
	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	totalStars := user.TotalStars + 1
	specialStars := user.SpecialStars
	if starValue > 1 {
		specialStars++
	}

	if err := s.repository.UpdateUserStars(ctx, userID, totalStars, specialStars); err != nil {
		return nil, fmt.Errorf("failed to update user stars: %v", err)
	}

	checks := []struct {
		achievementID string
		earned        bool
	}{
		{"first_star", totalStars >= 1},
		{"collector_10", totalStars >= 10},
		{"collector_50", totalStars >= 50},
		{"collector_100", totalStars >= 100},
		{"special_5", specialStars >= 5},
		{"special_20", specialStars >= 20},
	}

	var unlocked []Achievement
	for _, check := range checks {
		if check.earned {
			unlocked = s.appendUnlock(ctx, userID, check.achievementID, unlocked)
		}
	}

	for _, challenge := range s.ActiveChallenges() {
		if challenge.Category != "collection" {
			continue
		}
		advance := strings.HasPrefix(challenge.ID, "collect_stars") ||
			(strings.HasPrefix(challenge.ID, "collect_special") && starValue > 1)
		if !advance {
			continue
		}
		if err := s.repository.AddChallengeProgress(ctx, userID, challenge.ID, 1); err != nil {
			log.Error("Failed to add challenge progress for player %s: %v", userID, err)
		}
	}

	return unlocked, nil
}

// UpdateLoginStreak advances a player's consecutive-day streak and
// unlocks streak achievements. It returns the current streak.
func (s *Service) UpdateLoginStreak(ctx context.Context, userID string) (int, []Achievement, error) {
	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get user: %v", err)
	}

	now := s.now()
	var newStreak int
	switch {
	case user.LastLogin.IsZero():
		newStreak = 1
	case daysBetween(user.LastLogin, now) == 1:
		newStreak = user.LoginStreak + 1
	case daysBetween(user.LastLogin, now) == 0:
		newStreak = user.LoginStreak
	default:
		newStreak = 1
	}

	if err := s.repository.UpdateUserLoginStreak(ctx, userID, newStreak, now); err != nil {
		return 0, nil, fmt.Errorf("failed to update login streak: %v", err)
	}

	var unlocked []Achievement
	if newStreak >= 3 {
		unlocked = s.appendUnlock(ctx, userID, "streak_3", unlocked)
	}
	if newStreak >= 7 {
		unlocked = s.appendUnlock(ctx, userID, "streak_7", unlocked)
	}

	log.Debug("Player %s login streak is now %d", userID, newStreak)
	return newStreak, unlocked, nil
}

// ChallengeProgress is one challenge with a player's progress on it.
type ChallengeProgress struct {
	*Challenge
	Progress           int     `json:"progress"`
	IsComplete         bool    `json:"isComplete"`
	ProgressPercentage int     `json:"progressPercentage"`
	RemainingHours     float64 `json:"remainingHours"`
}

// UserProgress is the aggregate progression view for one player.
type UserProgress struct {
	UserID                string              `json:"userId"`
	Level                 int                 `json:"level"`
	Experience            int                 `json:"experience"`
	NextLevelXP           int                 `json:"nextLevelXp"`
	ProgressPercentage    int                 `json:"progressPercentage"`
	LoginStreak           int                 `json:"loginStreak"`
	TotalStars            int                 `json:"totalStars"`
	SpecialStars          int                 `json:"specialStars"`
	Challenges            []ChallengeProgress `json:"challenges"`
	UnlockedAchievements  []Achievement       `json:"unlockedAchievements"`
	AchievementPercentage int                 `json:"achievementPercentage"`
}

// UserProgress returns the aggregate progression data for a player.
func (s *Service) UserProgress(ctx context.Context, userID string) (*UserProgress, error) {
	user, err := s.repository.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	nextLevelXP := NextLevelXP(user.Level)
	progressPercentage := 100
	if nextLevelXP > 0 {
		currentLevelXP := levelThresholds[user.Level]
		span := nextLevelXP - currentLevelXP
		if span > 0 {
			progressPercentage = (user.Experience - currentLevelXP) * 100 / span
		}
		if progressPercentage < 0 {
			progressPercentage = 0
		}
		if progressPercentage > 100 {
			progressPercentage = 100
		}
	}

	now := s.now()
	var challenges []ChallengeProgress
	for _, challenge := range s.ActiveChallenges() {
		progress, err := s.repository.GetChallengeProgress(ctx, userID, challenge.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get challenge progress: %v", err)
		}
		percentage := progress * 100 / challenge.Goal
		if percentage > 100 {
			percentage = 100
		}
		challenges = append(challenges, ChallengeProgress{
			Challenge:          challenge,
			Progress:           progress,
			IsComplete:         progress >= challenge.Goal,
			ProgressPercentage: percentage,
			RemainingHours:     challenge.RemainingHours(now),
		})
	}

	achievementIDs, err := s.repository.ListUnlockedAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %v", err)
	}
	var unlocked []Achievement
	for _, id := range achievementIDs {
		if achievement := findAchievement(id); achievement != nil {
			unlocked = append(unlocked, *achievement)
		}
	}

	return &UserProgress{
		UserID:                userID,
		Level:                 user.Level,
		Experience:            user.Experience,
		NextLevelXP:           nextLevelXP,
		ProgressPercentage:    progressPercentage,
		LoginStreak:           user.LoginStreak,
		TotalStars:            user.TotalStars,
		SpecialStars:          user.SpecialStars,
		Challenges:            challenges,
		UnlockedAchievements:  unlocked,
		AchievementPercentage: len(unlocked) * 100 / len(Achievements),
	}, nil
}

func (s *Service) appendUnlock(ctx context.Context, userID string, achievementID string, unlocked []Achievement) []Achievement {
	achievement, err := s.UnlockAchievement(ctx, userID, achievementID)
	if err != nil {
		log.Error("Failed to unlock achievement %s for player %s: %v", achievementID, userID, err)
		return unlocked
	}
	if achievement != nil {
		unlocked = append(unlocked, *achievement)
	}
	return unlocked
}

// daysBetween returns the number of calendar days from a to b.
func daysBetween(a time.Time, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
