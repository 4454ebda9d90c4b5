package progression

// Achievement is one entry in the fixed achievement catalog.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Hidden      bool   `json:"hidden"`
}

// Achievements is the full catalog. IDs are stable: they are persisted
// per user in the repository.
var Achievements = []Achievement{
	{ID: "first_star", Title: "First Star", Description: "Collect your first star", Icon: "⭐", Points: 5},
	{ID: "collector_10", Title: "Star Collector", Description: "Collect 10 stars", Icon: "🌠", Points: 10},
	{ID: "collector_50", Title: "Star Master", Description: "Collect 50 stars", Icon: "✨", Points: 20},
	{ID: "collector_100", Title: "Star Champion", Description: "Collect 100 stars", Icon: "🌌", Points: 30},
	{ID: "special_5", Title: "Special Star Hunter", Description: "Collect 5 special stars", Icon: "🌟", Points: 15},
	{ID: "special_20", Title: "Special Star Expert", Description: "Collect 20 special stars", Icon: "🔆", Points: 30},
	{ID: "level_5", Title: "Rising Pilot", Description: "Reach level 5", Icon: "🚀", Points: 20},
	{ID: "level_10", Title: "Star Captain", Description: "Reach level 10", Icon: "👨‍✈️", Points: 50},
	{ID: "streak_3", Title: "Regular Flyer", Description: "Play 3 days in a row", Icon: "📅", Points: 15},
	{ID: "streak_7", Title: "Dedicated Pilot", Description: "Play 7 days in a row", Icon: "📆", Points: 25},
}

func findAchievement(achievementID string) *Achievement {
	for i := range Achievements {
		if Achievements[i].ID == achievementID {
			return &Achievements[i]
		}
	}
	return nil
}
