package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/skysquad/skysquad/pkg/api/middleware"
	"github.com/skysquad/skysquad/pkg/auth"
	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/progression"
	"github.com/skysquad/skysquad/pkg/repositories"
	"github.com/skysquad/skysquad/pkg/repositories/models"
	"github.com/skysquad/skysquad/pkg/state"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// HandleRegister creates a user account and returns a session token.
func HandleRegister(repository repositories.Repository, tokens *authproviders.JWTProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &registerRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if !usernameRegex.MatchString(req.Username) {
			http.Error(w, "Username must be 3-16 letters, digits or underscores", http.StatusBadRequest)
			return
		}
		if len(req.Password) < 6 {
			http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
			return
		}

		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error("failed to hash password: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		user, err := repository.CreateUser(r.Context(), req.Username, req.Email, passwordHash)
		if err != nil {
			if repositories.IsUsernameExists(err) {
				http.Error(w, "Username already taken", http.StatusConflict)
				return
			}
			log.Error("failed to create user: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		writeSession(w, user, tokens, http.StatusCreated)
	}
}

// HandleLogin checks credentials and returns a session token.
func HandleLogin(repository repositories.Repository, tokens *authproviders.JWTProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &loginRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := repository.GetUserByUsername(r.Context(), req.Username)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Invalid username or password", http.StatusUnauthorized)
				return
			}
			log.Error("failed to get user: %v", err)
			http.Error(w, "Failed to log in", http.StatusInternalServerError)
			return
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}

		writeSession(w, user, tokens, http.StatusOK)
	}
}

func writeSession(w http.ResponseWriter, user *models.User, tokens *authproviders.JWTProvider, status int) {
	token, err := tokens.IssueToken(user.ID, user.Username)
	if err != nil {
		log.Error("failed to issue token: %v", err)
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&sessionResponse{Token: token, User: user}); err != nil {
		log.Error("failed to encode session: %v", err)
	}
}

type statsResponse struct {
	Timestamp int64 `json:"timestamp"`
	Score     int   `json:"score"`
	Players   int   `json:"players"`
	Stars     int   `json:"stars"`
}

// HandleStats reports the latest game state snapshot.
func HandleStats(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameState, err := stateManager.Get(r.Context())
		if err != nil {
			log.Error("failed to get game state: %v", err)
			http.Error(w, "Failed to get game state", http.StatusInternalServerError)
			return
		}

		stats := &statsResponse{
			Timestamp: gameState.Timestamp,
			Score:     gameState.Score,
			Players:   len(gameState.Players),
			Stars:     len(gameState.Stars),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Error("failed to encode stats: %v", err)
		}
	}
}

// HandleProgress returns the authenticated user's progression summary.
func HandleProgress(progressionService *progression.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
		if !ok {
			log.Error("failed to get user from context")
			http.Error(w, "Failed to get user from context", http.StatusInternalServerError)
			return
		}

		progress, err := progressionService.UserProgress(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to get user progress: %v", err)
			http.Error(w, "Failed to get user progress", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(progress); err != nil {
			log.Error("failed to encode progress: %v", err)
		}
	}
}

// HandleListAchievements returns the full achievement catalog.
func HandleListAchievements(progressionService *progression.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(progressionService.AchievementCatalog()); err != nil {
			log.Error("failed to encode achievements: %v", err)
		}
	}
}

type challengeView struct {
	*progression.Challenge
	RemainingHours float64 `json:"remainingHours"`
}

// HandleListChallenges returns the currently active daily challenges.
func HandleListChallenges(progressionService *progression.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		challenges := progressionService.ActiveChallenges()
		views := make([]challengeView, 0, len(challenges))
		for _, challenge := range challenges {
			views = append(views, challengeView{
				Challenge:      challenge,
				RemainingHours: challenge.RemainingHours(now),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(views); err != nil {
			log.Error("failed to encode challenges: %v", err)
		}
	}
}
