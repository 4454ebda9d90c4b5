package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skysquad/skysquad/pkg/api"
	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	"github.com/skysquad/skysquad/pkg/config"
	"github.com/skysquad/skysquad/pkg/game"
	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/network"
	"github.com/skysquad/skysquad/pkg/progression"
	"github.com/skysquad/skysquad/pkg/queue"
	"github.com/skysquad/skysquad/pkg/repositories"
	"github.com/skysquad/skysquad/pkg/state"
	"github.com/skysquad/skysquad/pkg/workers"
)

const (
	clientMessageQueueSize      = 10000
	connectionEventQueueSize    = 1000
	broadcastChannelSize        = 1024
	progressionEventChannelSize = 256
	gameLoopInterval            = 50 * time.Millisecond
	gracefulShutdownTimeout     = 5 * time.Second
	sqliteSchemePrefix          = "sqlite://"
	postgresSchemePrefix        = "postgres://"
	postgresAltSchemePrefix     = "postgresql://"
)

func main() {
	wsPort := flag.Int("ws-port", 8888, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8889, "HTTP API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, sqlitePath, err := newRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(ctx)

	authProvider, err := authproviders.NewJWTProvider(authproviders.NewJWTProviderOptions{
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	clientManager := network.NewClientManager()
	clientMessageQueue := queue.NewInMemoryQueue(clientMessageQueueSize)
	connectionEventQueue := queue.NewInMemoryQueue(connectionEventQueueSize)

	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		AuthProvider:         authProvider,
		ClientManager:        clientManager,
		ClientMessageQueue:   clientMessageQueue,
		ConnectionEventQueue: connectionEventQueue,
		WSPort:               *wsPort,
	})
	networkManager.Start(ctx)

	stateManager := state.NewInMemoryStateManager()

	broadcastMessageChan := make(chan workers.BroadcastMessage, broadcastChannelSize)
	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		NetworkManager:       networkManager,
		BroadcastMessageChan: broadcastMessageChan,
	})
	go broadcastMessageWorker.Start(ctx)

	progressionService := progression.NewService(progression.NewServiceOptions{
		Repository: repository,
	})

	progressionEventChan := make(chan workers.ProgressionEvent, progressionEventChannelSize)
	progressionEventWorker := workers.NewProgressionEventWorker(workers.NewProgressionEventWorkerOptions{
		Progression:          progressionService,
		NetworkManager:       networkManager,
		ProgressionEventChan: progressionEventChan,
	})
	go progressionEventWorker.Start(ctx)

	if sqlitePath != "" {
		backupWorker := workers.NewBackupWorker(workers.NewBackupWorkerOptions{
			DBPath:    sqlitePath,
			BackupDir: cfg.BackupDir,
			Interval:  cfg.BackupInterval,
			Retain:    cfg.BackupRetain,
		})
		go backupWorker.Start(ctx)
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         *apiPort,
		AuthProvider: authProvider,
		Repository:   repository,
		StateManager: stateManager,
		Progression:  progressionService,
	})
	go apiServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop API server: %v", err)
		}
	}()

	starField := game.NewStarField(constants.StarTargetCount, rand.New(rand.NewSource(time.Now().UnixNano())))
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ClientMessageQueue:   clientMessageQueue,
		ConnectionEventQueue: connectionEventQueue,
		StateManager:         stateManager,
		BroadcastMessageChan: broadcastMessageChan,
		ProgressionEventChan: progressionEventChan,
		StarField:            starField,
		GameLoopInterval:     gameLoopInterval,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		log.Error("Game manager stopped: %v", err)
	}
}

// newRepository opens the repository named by the database URL. The
// second return value is the on-disk path for SQLite databases, used
// by the backup worker, and empty otherwise.
func newRepository(ctx context.Context, databaseURL string) (repositories.Repository, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, sqliteSchemePrefix):
		path := strings.TrimPrefix(databaseURL, sqliteSchemePrefix)
		repository, err := repositories.NewSQLiteRepository(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return repository, path, nil
	case strings.HasPrefix(databaseURL, postgresSchemePrefix), strings.HasPrefix(databaseURL, postgresAltSchemePrefix):
		repository, err := repositories.NewPostgresRepository(ctx, databaseURL)
		if err != nil {
			return nil, "", err
		}
		return repository, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported database URL: %s", databaseURL)
	}
}
