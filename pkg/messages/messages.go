package messages

import "encoding/json"

// Message types
const (
	MessageTypeClientPing             = "ping"
	MessageTypeServerPong             = "pong"
	MessageTypeClientJoin             = "cj"
	MessageTypeClientMove             = "cm"
	MessageTypeClientCollectStar      = "ccs"
	MessageTypeServerGameUpdate       = "sgu"
	MessageTypeServerStarCollected    = "ssc"
	MessageTypeServerPlayerConnect    = "spc"
	MessageTypeServerPlayerDisconnect = "spd"
	MessageTypeServerAchievement      = "sach"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID uint32          `json:"clientID"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// ClientJoin is sent once per connection to enter the game.
// Token is optional: registered players send a session token and the
// server uses the verified identity, guests just send a display name.
type ClientJoin struct {
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}

// ClientMove is a single movement command.
type ClientMove struct {
	Direction string `json:"direction"`
}

// ClientCollectStar is a client-suggested collection. The server
// re-validates proximity before crediting it.
type ClientCollectStar struct {
	StarID string `json:"starId"`
}

// PlayerInfo is one player entry in a game update.
type PlayerInfo struct {
	ClientID uint32  `json:"id"`
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// StarInfo is one star entry in a game update.
type StarInfo struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int     `json:"value"`
}

// ServerGameUpdate is the per-tick snapshot broadcast to every client.
type ServerGameUpdate struct {
	Timestamp int64        `json:"timestamp"`
	Score     int          `json:"score"`
	Players   []PlayerInfo `json:"players"`
	Stars     []StarInfo   `json:"stars"`
}

// ServerStarCollected announces a collection so clients can play
// feedback effects.
type ServerStarCollected struct {
	ClientID uint32 `json:"clientId"`
	StarID   string `json:"starId"`
	Value    int    `json:"value"`
}

type ServerPlayerConnect struct {
	ClientID uint32  `json:"clientId"`
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type ServerPlayerDisconnect struct {
	ClientID uint32 `json:"clientId"`
}

// ServerAchievement notifies a client of a newly unlocked achievement.
type ServerAchievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
}
