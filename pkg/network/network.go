package network

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	gametypes "github.com/skysquad/skysquad/pkg/game/types"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/messages"
	"github.com/skysquad/skysquad/pkg/queue"
)

type NetworkManager struct {
	AuthProvider         authproviders.AuthProvider
	ClientManager        *ClientManager
	ClientMessageQueue   queue.Queue
	ConnectionEventQueue queue.Queue
	WSServer             *WSServer
}

type NewNetworkManagerOptions struct {
	AuthProvider         authproviders.AuthProvider
	ClientManager        *ClientManager
	ClientMessageQueue   queue.Queue
	ConnectionEventQueue queue.Queue
	WSPort               int
	WSServerTLS          *TLSConfig
}

func NewNetworkManager(opts NewNetworkManagerOptions) *NetworkManager {
	return &NetworkManager{
		AuthProvider:         opts.AuthProvider,
		ClientManager:        opts.ClientManager,
		ClientMessageQueue:   opts.ClientMessageQueue,
		ConnectionEventQueue: opts.ConnectionEventQueue,
		WSServer: NewWSServer(NewWSServerOptions{
			Port: opts.WSPort,
			TLS:  opts.WSServerTLS,
		}),
	}
}

func (n *NetworkManager) Start(ctx context.Context) {
	go n.WSServer.Start(ctx, n.handleDisconnect, n.handleMessage)
}

func (n *NetworkManager) handleDisconnect(conn *websocket.Conn) {
	clientID := n.ClientManager.GetClientIDByConn(conn)
	if clientID == 0 {
		log.Debug("Connection closed before joining")
		return
	}

	n.ClientManager.DisconnectClient(clientID)
	if err := n.ConnectionEventQueue.Enqueue(&gametypes.DisconnectPlayerEvent{
		ClientID: clientID,
	}); err != nil {
		log.Error("Failed to enqueue disconnect player event: %v", err)
	}
	log.Info("Client %d disconnected", clientID)
}

// handleMessage routes an inbound client message. Join and ping are
// handled here; everything else is stamped with the server-side client
// ID and queued for the game loop.
func (n *NetworkManager) handleMessage(ctx context.Context, conn *websocket.Conn, message *messages.Message) {
	clientID := n.ClientManager.GetClientIDByConn(conn)

	switch message.Type {
	case messages.MessageTypeClientJoin:
		if err := n.handleClientJoin(ctx, conn, clientID, message); err != nil {
			log.Error("Failed to handle client join: %v", err)
		}
	case messages.MessageTypeClientPing:
		if clientID == 0 {
			return
		}
		if err := n.SendMessageToClient(clientID, &messages.Message{
			ClientID: 0,
			Type:     messages.MessageTypeServerPong,
		}); err != nil {
			log.Error("Failed to send pong to client %d: %v", clientID, err)
		}
	default:
		if clientID == 0 {
			log.Warn("Received %s message from a connection that has not joined", message.Type)
			return
		}
		// The client ID a client claims is never trusted.
		message.ClientID = clientID
		if err := n.ClientMessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue message: %v", err)
		}
	}
}

// handleClientJoin registers the connection and queues a connect event
// for the game loop. Joining twice on the same connection re-queues the
// event with the same client ID, which the game loop treats as an
// overwrite.
func (n *NetworkManager) handleClientJoin(ctx context.Context, conn *websocket.Conn, clientID uint32, message *messages.Message) error {
	clientJoin := &messages.ClientJoin{}
	if err := json.Unmarshal(message.Payload, clientJoin); err != nil {
		return fmt.Errorf("failed to unmarshal client join: %v", err)
	}

	userID := ""
	username := clientJoin.Username
	if clientJoin.Token != "" && n.AuthProvider != nil {
		claims, err := n.AuthProvider.VerifyToken(ctx, clientJoin.Token)
		if err != nil {
			// Invalid tokens degrade to a guest join rather than
			// kicking the player.
			log.Warn("Failed to verify join token: %v", err)
		} else {
			userID = claims.UID
			username = claims.Username
		}
	}

	if clientID == 0 {
		var err error
		clientID, err = n.ClientManager.ConnectClient(conn)
		if err != nil {
			return fmt.Errorf("failed to connect client: %v", err)
		}
		log.Info("Client %d connected", clientID)
	}

	if err := n.ConnectionEventQueue.Enqueue(&gametypes.ConnectPlayerEvent{
		ClientID: clientID,
		UserID:   userID,
		Username: username,
	}); err != nil {
		return fmt.Errorf("failed to enqueue connect player event: %v", err)
	}

	return nil
}

// BroadcastMessage sends a message to every connected client. A failed
// write to one client is logged and does not affect the others.
func (n *NetworkManager) BroadcastMessage(msg *messages.Message) {
	for _, client := range n.ClientManager.GetClients() {
		if err := client.WriteMessage(msg); err != nil {
			log.Error("Failed to send message to client %d: %v", client.ID, err)
		}
	}
}

// SendMessageToClient sends a message to a single client.
func (n *NetworkManager) SendMessageToClient(clientID uint32, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %d: %v", clientID, err)
	}

	if err := client.WriteMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to client %d: %v", clientID, err)
	}

	return nil
}
