package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/messages"
	"github.com/skysquad/skysquad/pkg/network"
)

// BroadcastMessageWorker performs the per-client fan-out for server
// broadcasts off the game loop goroutine, so a slow session can only
// delay other deliveries, never the tick.
type BroadcastMessageWorker struct {
	networkManager       *network.NetworkManager
	broadcastMessageChan <-chan BroadcastMessage
}

// BroadcastMessage is a server message queued for fan-out. Message is
// the typed payload matching Type; it is marshaled on the worker.
type BroadcastMessage struct {
	Type    string
	Message interface{}
}

type NewBroadcastMessageWorkerOptions struct {
	NetworkManager       *network.NetworkManager
	BroadcastMessageChan <-chan BroadcastMessage
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		networkManager:       opts.NetworkManager,
		broadcastMessageChan: opts.BroadcastMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.broadcastMessageChan:
			switch msg.Type {
			case messages.MessageTypeServerGameUpdate:
				if err := w.handleServerGameUpdate(msg); err != nil {
					log.Error("Failed to handle server game update message: %v", err)
				}
			case messages.MessageTypeServerStarCollected:
				if err := w.handleServerStarCollected(msg); err != nil {
					log.Error("Failed to handle server star collected message: %v", err)
				}
			case messages.MessageTypeServerPlayerConnect:
				if err := w.handleServerPlayerConnect(msg); err != nil {
					log.Error("Failed to handle server player connect message: %v", err)
				}
			case messages.MessageTypeServerPlayerDisconnect:
				if err := w.handleServerPlayerDisconnect(msg); err != nil {
					log.Error("Failed to handle server player disconnect message: %v", err)
				}
			default:
				log.Error("Unknown server message type: %s", msg.Type)
			}
		}
	}
}

func (w *BroadcastMessageWorker) handleServerGameUpdate(b BroadcastMessage) error {
	serverGameUpdate, ok := b.Message.(*messages.ServerGameUpdate)
	if !ok {
		return fmt.Errorf("failed to cast server game update message")
	}
	return w.broadcast(messages.MessageTypeServerGameUpdate, serverGameUpdate)
}

func (w *BroadcastMessageWorker) handleServerStarCollected(b BroadcastMessage) error {
	starCollected, ok := b.Message.(*messages.ServerStarCollected)
	if !ok {
		return fmt.Errorf("failed to cast server star collected message")
	}
	return w.broadcast(messages.MessageTypeServerStarCollected, starCollected)
}

func (w *BroadcastMessageWorker) handleServerPlayerConnect(b BroadcastMessage) error {
	playerConnect, ok := b.Message.(*messages.ServerPlayerConnect)
	if !ok {
		return fmt.Errorf("failed to cast server player connect message")
	}
	return w.broadcast(messages.MessageTypeServerPlayerConnect, playerConnect)
}

func (w *BroadcastMessageWorker) handleServerPlayerDisconnect(b BroadcastMessage) error {
	playerDisconnect, ok := b.Message.(*messages.ServerPlayerDisconnect)
	if !ok {
		return fmt.Errorf("failed to cast server player disconnect message")
	}
	return w.broadcast(messages.MessageTypeServerPlayerDisconnect, playerDisconnect)
}

func (w *BroadcastMessageWorker) broadcast(messageType string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %v", messageType, err)
	}

	w.networkManager.BroadcastMessage(&messages.Message{
		ClientID: 0,
		Type:     messageType,
		Payload:  payload,
	})

	return nil
}
