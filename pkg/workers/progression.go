package workers

import (
	"context"
	"encoding/json"

	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/messages"
	"github.com/skysquad/skysquad/pkg/network"
	"github.com/skysquad/skysquad/pkg/progression"
)

type ProgressionEventType int

const (
	ProgressionEventStarCollected ProgressionEventType = iota
	ProgressionEventPlayerJoined
)

// ProgressionEvent is a fire-and-forget notification from the game loop.
// UserID is empty for guests, in which case the event is skipped.
type ProgressionEvent struct {
	Type      ProgressionEventType
	ClientID  uint32
	UserID    string
	StarValue int
}

type ProgressionEventWorker struct {
	progression          *progression.Service
	networkManager       *network.NetworkManager
	progressionEventChan <-chan ProgressionEvent
}

type NewProgressionEventWorkerOptions struct {
	Progression          *progression.Service
	NetworkManager       *network.NetworkManager
	ProgressionEventChan <-chan ProgressionEvent
}

// NewProgressionEventWorker creates a new ProgressionEventWorker.
// The worker processes star collection and join events from the game
// loop, updates player progression, and pushes unlocked achievements
// back to the collecting client.
func NewProgressionEventWorker(opts NewProgressionEventWorkerOptions) *ProgressionEventWorker {
	return &ProgressionEventWorker{
		progression:          opts.Progression,
		networkManager:       opts.NetworkManager,
		progressionEventChan: opts.ProgressionEventChan,
	}
}

func (w *ProgressionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.progressionEventChan:
			if event.UserID == "" {
				continue
			}
			switch event.Type {
			case ProgressionEventStarCollected:
				w.handleStarCollected(ctx, event)
			case ProgressionEventPlayerJoined:
				w.handlePlayerJoined(ctx, event)
			default:
				log.Error("Unknown progression event type: %v", event.Type)
			}
		}
	}
}

func (w *ProgressionEventWorker) handleStarCollected(ctx context.Context, event ProgressionEvent) {
	unlocked, err := w.progression.TrackStarCollection(ctx, event.UserID, event.StarValue)
	if err != nil {
		log.Error("Failed to track star collection for player %s: %v", event.UserID, err)
		return
	}

	if _, _, levelUnlocks, err := w.progression.AddExperience(ctx, event.UserID, event.StarValue); err != nil {
		log.Error("Failed to add experience for player %s: %v", event.UserID, err)
	} else {
		unlocked = append(unlocked, levelUnlocks...)
	}

	w.notifyAchievements(event.ClientID, unlocked)
}

func (w *ProgressionEventWorker) handlePlayerJoined(ctx context.Context, event ProgressionEvent) {
	_, unlocked, err := w.progression.UpdateLoginStreak(ctx, event.UserID)
	if err != nil {
		log.Error("Failed to update login streak for player %s: %v", event.UserID, err)
		return
	}

	w.notifyAchievements(event.ClientID, unlocked)
}

func (w *ProgressionEventWorker) notifyAchievements(clientID uint32, unlocked []progression.Achievement) {
	for _, achievement := range unlocked {
		payload, err := json.Marshal(&messages.ServerAchievement{
			ID:          achievement.ID,
			Title:       achievement.Title,
			Description: achievement.Description,
			Icon:        achievement.Icon,
			Points:      achievement.Points,
		})
		if err != nil {
			log.Error("Failed to marshal achievement message: %v", err)
			continue
		}

		msg := &messages.Message{
			ClientID: 0,
			Type:     messages.MessageTypeServerAchievement,
			Payload:  payload,
		}

		// The client may have disconnected since collecting.
		if err := w.networkManager.SendMessageToClient(clientID, msg); err != nil {
			log.Debug("Failed to send achievement to client %d: %v", clientID, err)
		}
	}
}
