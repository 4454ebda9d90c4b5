package progression

import (
	"fmt"
	"time"
)

const (
	// DailyChallengeCount is the number of challenges active at once.
	DailyChallengeCount = 3
	// ChallengeDuration is how long a generated challenge lasts.
	ChallengeDuration = 24 * time.Hour
)

// Challenge is a generated daily challenge.
type Challenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Goal        int       `json:"goal"`
	Reward      int       `json:"reward"`
	Category    string    `json:"category"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// IsExpired reports whether the challenge has passed its end time.
func (c *Challenge) IsExpired(now time.Time) bool {
	return now.After(c.EndTime)
}

// RemainingHours returns the hours left before expiry, never negative.
func (c *Challenge) RemainingHours(now time.Time) float64 {
	remaining := c.EndTime.Sub(now).Hours()
	if remaining < 0 {
		return 0
	}
	return remaining
}

type challengeTemplate struct {
	ID          string
	Title       string
	Description string
	GoalMin     int
	GoalMax     int
	RewardMin   int
	RewardMax   int
	Category    string
}

var challengeTemplates = []challengeTemplate{
	{ID: "collect_stars", Title: "Star Collector", Description: "Collect %d stars", GoalMin: 10, GoalMax: 30, RewardMin: 20, RewardMax: 50, Category: "collection"},
	{ID: "collect_special", Title: "Special Hunter", Description: "Collect %d special stars", GoalMin: 3, GoalMax: 10, RewardMin: 30, RewardMax: 80, Category: "collection"},
	{ID: "play_time", Title: "Flight Time", Description: "Play for %d minutes", GoalMin: 5, GoalMax: 20, RewardMin: 15, RewardMax: 40, Category: "engagement"},
	{ID: "high_score", Title: "High Flyer", Description: "Get a score of %d in one session", GoalMin: 50, GoalMax: 200, RewardMin: 30, RewardMax: 100, Category: "performance"},
}

// generateDailyChallenges samples count templates without replacement
// and instantiates them with randomized goals and rewards.
func (s *Service) generateDailyChallenges(count int) []*Challenge {
	if count > len(challengeTemplates) {
		count = len(challengeTemplates)
	}

	now := s.now()
	challenges := make([]*Challenge, 0, count)
	for i, idx := range s.rng.Perm(len(challengeTemplates))[:count] {
		tmpl := challengeTemplates[idx]
		goal := tmpl.GoalMin + s.rng.Intn(tmpl.GoalMax-tmpl.GoalMin+1)
		reward := tmpl.RewardMin + s.rng.Intn(tmpl.RewardMax-tmpl.RewardMin+1)

		challenges = append(challenges, &Challenge{
			ID:          fmt.Sprintf("%s_%d_%d", tmpl.ID, now.Unix(), i),
			Title:       tmpl.Title,
			Description: fmt.Sprintf(tmpl.Description, goal),
			Goal:        goal,
			Reward:      reward,
			Category:    tmpl.Category,
			StartTime:   now,
			EndTime:     now.Add(ChallengeDuration),
		})
	}

	return challenges
}
