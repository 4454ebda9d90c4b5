package types

type ConnectPlayerEvent struct {
	ClientID uint32
	UserID   string
	Username string
}

type DisconnectPlayerEvent struct {
	ClientID uint32
}
