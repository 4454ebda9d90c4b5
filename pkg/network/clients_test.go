package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientManager_ConnectAndDisconnect(t *testing.T) {
	cm := NewClientManager()

	clientID, err := cm.ConnectClient(nil)
	require.NoError(t, err)
	require.NotZero(t, clientID)
	assert.True(t, cm.Exists(clientID))
	assert.Len(t, cm.GetClients(), 1)

	client, err := cm.GetClient(clientID)
	require.NoError(t, err)
	assert.Equal(t, clientID, client.ID)

	cm.DisconnectClient(clientID)
	assert.False(t, cm.Exists(clientID))
	assert.Empty(t, cm.GetClients())

	_, err = cm.GetClient(clientID)
	assert.Error(t, err)
}

func TestClientManager_UniqueIDs(t *testing.T) {
	cm := NewClientManager()

	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		clientID, err := cm.ConnectClient(nil)
		require.NoError(t, err)
		assert.False(t, seen[clientID])
		seen[clientID] = true
	}
}
