package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	"github.com/skysquad/skysquad/pkg/game/types"
	"github.com/skysquad/skysquad/pkg/progression"
	"github.com/skysquad/skysquad/pkg/repositories"
	"github.com/skysquad/skysquad/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*APIServer, state.StateManager) {
	t.Helper()
	ctx := context.Background()

	repository, err := repositories.NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := repository.Close(ctx); err != nil {
			t.Errorf("failed to close repository: %v", err)
		}
	})

	authProvider, err := authproviders.NewJWTProvider(authproviders.NewJWTProviderOptions{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	stateManager := state.NewInMemoryStateManager()
	progressionService := progression.NewService(progression.NewServiceOptions{
		Repository: repository,
	})

	server := NewAPIServer(NewAPIServerOptions{
		Port:         0,
		AuthProvider: authProvider,
		Repository:   repository,
		StateManager: stateManager,
		Progression:  progressionService,
	})
	return server, stateManager
}

func doJSON(t *testing.T, server *APIServer, method string, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	rec := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestAPIServer_RegisterAndLogin(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/register", map[string]string{
		"username": "rosa",
		"email":    "rosa@example.com",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	session := struct {
		Token string `json:"token"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)

	// The same username cannot be registered twice.
	rec = doJSON(t, server, http.MethodPost, "/api/register", map[string]string{
		"username": "rosa",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/login", map[string]string{
		"username": "rosa",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/login", map[string]string{
		"username": "rosa",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/login", map[string]string{
		"username": "nobody",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIServer_RegisterValidation(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/register", map[string]string{
		"username": "no spaces allowed",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/register", map[string]string{
		"username": "rosa",
		"password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIServer_Stats(t *testing.T) {
	server, stateManager := newTestServer(t)

	gameState := types.NewGameState()
	gameState.Timestamp = 12345
	gameState.Score = 42
	gameState.Players[1] = types.NewPlayerState("", "rosa", 0, 0)
	require.NoError(t, stateManager.Set(context.Background(), gameState))

	rec := doJSON(t, server, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := struct {
		Timestamp int64 `json:"timestamp"`
		Score     int   `json:"score"`
		Players   int   `json:"players"`
		Stars     int   `json:"stars"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(12345), stats.Timestamp)
	assert.Equal(t, 42, stats.Score)
	assert.Equal(t, 1, stats.Players)
	assert.Equal(t, 0, stats.Stars)
}

func TestAPIServer_ProgressRequiresAuth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/progress", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/progress", nil, "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIServer_Progress(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/register", map[string]string{
		"username": "rosa",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	session := struct {
		Token string `json:"token"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = doJSON(t, server, http.MethodGet, "/api/progress", nil, session.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	progress := &progression.UserProgress{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), progress))
	assert.Equal(t, 0, progress.Level)
	assert.Len(t, progress.Challenges, progression.DailyChallengeCount)
}

func TestAPIServer_Catalogs(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/achievements", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var achievements []progression.Achievement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &achievements))
	assert.NotEmpty(t, achievements)

	rec = doJSON(t, server, http.MethodGet, "/api/challenges", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var challenges []struct {
		progression.Challenge
		RemainingHours float64 `json:"remainingHours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenges))
	require.Len(t, challenges, progression.DailyChallengeCount)
	for _, challenge := range challenges {
		assert.Greater(t, challenge.RemainingHours, 0.0)
		assert.LessOrEqual(t, challenge.RemainingHours, 24.0)
	}
}
