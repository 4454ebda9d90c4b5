package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/skysquad/skysquad/pkg/game/types"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/messages"
	"github.com/skysquad/skysquad/pkg/queue"
	"github.com/skysquad/skysquad/pkg/state"
	"github.com/skysquad/skysquad/pkg/workers"
)

// GameManager owns the authoritative game state. All state mutation
// happens on the goroutine running Start, once per tick, in a fixed
// order: connection events, then client commands, then the collision
// sweep, then the broadcast. The broadcast itself only enqueues: the
// per-client writes run on the broadcast worker, so a slow session
// cannot stall the tick.
type GameManager struct {
	clientMessageQueue   queue.Queue
	connectionEventQueue queue.Queue
	stateManager         state.StateManager
	broadcastMessageChan chan<- workers.BroadcastMessage
	progressionEventChan chan<- workers.ProgressionEvent
	gameLoopInterval     time.Duration

	timestamp int64
	score     int
	players   map[uint32]*types.PlayerState
	starField *StarField
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientMessageQueue   queue.Queue
	ConnectionEventQueue queue.Queue
	StateManager         state.StateManager
	BroadcastMessageChan chan<- workers.BroadcastMessage
	ProgressionEventChan chan<- workers.ProgressionEvent
	StarField            *StarField
	GameLoopInterval     time.Duration
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	return &GameManager{
		clientMessageQueue:   opts.ClientMessageQueue,
		connectionEventQueue: opts.ConnectionEventQueue,
		stateManager:         opts.StateManager,
		broadcastMessageChan: opts.BroadcastMessageChan,
		progressionEventChan: opts.ProgressionEventChan,
		gameLoopInterval:     opts.GameLoopInterval,
		players:              make(map[uint32]*types.PlayerState),
		starField:            opts.StarField,
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	log.Info("Starting game loop with %d stars at %s per tick", gm.starField.Count(), gm.gameLoopInterval)

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			gm.gameTick(ctx, t)
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) {
	gm.timestamp = t.UnixMilli()
	gm.processConnectionEvents()
	gm.processClientMessages()
	gm.collectStars()
	gm.broadcastGameState(ctx)
}

// processConnectionEvents processes all pending connection events in the
// queue and updates the player registry.
func (gm *GameManager) processConnectionEvents() {
	pendingEvents, err := gm.connectionEventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read connection events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *types.ConnectPlayerEvent:
			playerState := types.NewPlayerState(event.UserID, event.Username, constants.PlayerStartingX, constants.PlayerStartingY)
			// A repeated join for the same client overwrites the entry.
			gm.players[event.ClientID] = playerState
			log.Debug("Player %q joined as client %d", playerState.Name, event.ClientID)

			gm.enqueueBroadcast(workers.BroadcastMessage{
				Type: messages.MessageTypeServerPlayerConnect,
				Message: &messages.ServerPlayerConnect{
					ClientID: event.ClientID,
					Username: playerState.Name,
					X:        playerState.Position.X,
					Y:        playerState.Position.Y,
				},
			})
			gm.emitProgressionEvent(workers.ProgressionEvent{
				Type:     workers.ProgressionEventPlayerJoined,
				ClientID: event.ClientID,
				UserID:   event.UserID,
			})
		case *types.DisconnectPlayerEvent:
			if _, ok := gm.players[event.ClientID]; !ok {
				continue
			}
			delete(gm.players, event.ClientID)
			log.Debug("Player for client %d removed", event.ClientID)

			gm.enqueueBroadcast(workers.BroadcastMessage{
				Type: messages.MessageTypeServerPlayerDisconnect,
				Message: &messages.ServerPlayerDisconnect{
					ClientID: event.ClientID,
				},
			})
		default:
			log.Error("Unhandled connection event type: %T", event)
		}
	}
}

// processClientMessages processes all pending client messages in the queue
// and updates the game state accordingly.
func (gm *GameManager) processClientMessages() {
	pendingMessages, err := gm.clientMessageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		switch message.Type {
		case messages.MessageTypeClientMove:
			gm.handleClientMove(message)
		case messages.MessageTypeClientCollectStar:
			gm.handleClientCollectStar(message)
		default:
			log.Error("Unhandled message type: %s", message.Type)
		}
	}
}

func (gm *GameManager) handleClientMove(message *messages.Message) {
	clientMove := &messages.ClientMove{}
	if err := json.Unmarshal(message.Payload, clientMove); err != nil {
		log.Error("Failed to unmarshal client move: %v", err)
		return
	}

	playerState, ok := gm.players[message.ClientID]
	if !ok {
		log.Warn("Client %d is not in the game state", message.ClientID)
		return
	}

	// Unknown directions leave the position unchanged.
	playerState.Position = ComputeNewPosition(playerState.Position, Direction(clientMove.Direction), constants.PlayerSpeed)
}

// handleClientCollectStar re-validates a client-suggested collection.
// The client is never trusted about proximity.
func (gm *GameManager) handleClientCollectStar(message *messages.Message) {
	clientCollectStar := &messages.ClientCollectStar{}
	if err := json.Unmarshal(message.Payload, clientCollectStar); err != nil {
		log.Error("Failed to unmarshal client collect star: %v", err)
		return
	}

	playerState, ok := gm.players[message.ClientID]
	if !ok {
		log.Warn("Client %d is not in the game state", message.ClientID)
		return
	}

	star, ok := gm.starField.Get(clientCollectStar.StarID)
	if !ok {
		// Already collected, a benign race.
		log.Debug("Client %d suggested a star that is gone: %s", message.ClientID, clientCollectStar.StarID)
		return
	}

	if !IsColliding(playerState.Position, star.Position, constants.StarCollectionRadius) {
		log.Debug("Client %d is too far from star %s", message.ClientID, star.ID)
		return
	}

	gm.collectStar(message.ClientID, playerState, star.ID)
}

// collectStars runs the per-tick collision sweep. The first player
// processed wins a contested star: the second collect is a no-op
// because the star is already gone.
func (gm *GameManager) collectStars() {
	for clientID, playerState := range gm.players {
		for _, star := range gm.starField.Stars() {
			if !IsColliding(playerState.Position, star.Position, constants.StarCollectionRadius) {
				continue
			}
			gm.collectStar(clientID, playerState, star.ID)
		}
	}
}

// collectStar credits a collection and spawns the replacement star.
func (gm *GameManager) collectStar(clientID uint32, playerState *types.PlayerState, starID string) {
	value, ok := gm.starField.Collect(starID)
	if !ok {
		return
	}

	gm.score += value
	gm.starField.Spawn()
	log.Debug("Client %d collected star %s worth %d, team score is %d", clientID, starID, value, gm.score)

	gm.enqueueBroadcast(workers.BroadcastMessage{
		Type: messages.MessageTypeServerStarCollected,
		Message: &messages.ServerStarCollected{
			ClientID: clientID,
			StarID:   starID,
			Value:    value,
		},
	})
	gm.emitProgressionEvent(workers.ProgressionEvent{
		Type:      workers.ProgressionEventStarCollected,
		ClientID:  clientID,
		UserID:    playerState.UserID,
		StarValue: value,
	})
}

// broadcastGameState queues the game state for delivery and publishes a
// copy for the HTTP API.
func (gm *GameManager) broadcastGameState(ctx context.Context) {
	gameState := gm.currentGameState()

	gm.enqueueBroadcast(workers.BroadcastMessage{
		Type:    messages.MessageTypeServerGameUpdate,
		Message: ServerGameUpdateFromState(gameState),
	})

	if err := gm.stateManager.Set(ctx, gameState); err != nil {
		log.Error("Failed to publish game state: %v", err)
	}
}

// enqueueBroadcast hands a message to the broadcast worker without ever
// blocking the tick. Messages are dropped if the worker is behind; the
// next game update supersedes anything dropped.
func (gm *GameManager) enqueueBroadcast(msg workers.BroadcastMessage) {
	select {
	case gm.broadcastMessageChan <- msg:
	default:
		log.Warn("Broadcast message channel is full, dropping %s message", msg.Type)
	}
}

// emitProgressionEvent hands an event to the progression worker without
// ever blocking the tick. Events are dropped if the worker is behind.
func (gm *GameManager) emitProgressionEvent(event workers.ProgressionEvent) {
	if gm.progressionEventChan == nil {
		return
	}
	select {
	case gm.progressionEventChan <- event:
	default:
		log.Warn("Progression event channel is full, dropping event")
	}
}

// currentGameState builds a snapshot of the current state.
func (gm *GameManager) currentGameState() *types.GameState {
	gameState := &types.GameState{
		Timestamp: gm.timestamp,
		Score:     gm.score,
		Players:   make(map[uint32]*types.PlayerState, len(gm.players)),
		Stars:     gm.starField.Stars(),
	}
	for clientID, playerState := range gm.players {
		gameState.Players[clientID] = playerState.Copy()
	}
	return gameState
}
