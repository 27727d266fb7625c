package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"aircon-bridge/config"
	"aircon-bridge/internal/api"
	"aircon-bridge/internal/climate"
	"aircon-bridge/internal/coordinator"
	"aircon-bridge/internal/db"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/model"
	"aircon-bridge/internal/publish"
	"aircon-bridge/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration from %s: %v", configPath, err)
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("%v, keeping default log level", err)
	} else {
		logger.SetLevel(level)
	}
	logger.Info("configuration loaded successfully from %s", configPath)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first snapshot decides which entities exist, so it must succeed.
	coord := coordinator.New(&cfg.Controller)
	if err := coord.Refresh(ctx); err != nil {
		logger.Fatal("initial read of controller %s failed: %v", cfg.Controller.URL, err)
	}

	deps := climate.Deps{Source: coord, Changer: coord}
	var appStore store.Store
	if cfg.Database.Enabled {
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			logger.Fatal("failed to initialize database: %v", err)
		}
		appStore = store.NewGormStore(gormDB)
		deps.Recorder = appStore
		logger.Info("command log initialized")
	}

	registry, err := climate.Setup(deps)
	if err != nil {
		logger.Fatal("failed to set up climate entities: %v", err)
	}

	if cfg.MQTT.Enabled {
		mqttClient := startMQTT(ctx, &cfg.MQTT, coord, registry)
		defer mqttClient.Disconnect()
	}

	go coord.Run(ctx)

	// Initialize router
	router := api.NewRouter(registry, appStore, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("Shutdown signal received, stopping services...")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server Shutdown: %v", err)
	}

	logger.Info("Server gracefully stopped")
}

// startMQTT connects to the broker, mirrors every new snapshot as retained
// entity states and routes command topics to the registry.
func startMQTT(ctx context.Context, cfg *config.MQTTConfig, coord *coordinator.Coordinator, registry *climate.Registry) *publish.Client {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "aircon-bridge-" + uuid.NewString()[:8]
	}

	client := publish.NewClient(cfg.Broker, clientID, cfg.TopicRoot)
	if err := client.Connect(); err != nil {
		logger.Fatal("failed to connect to mqtt broker %s: %v", cfg.Broker, err)
	}

	pool := publish.NewWorkerPool(cfg.Workers, client)
	pool.Start(ctx)
	coord.Subscribe(func(*model.System) {
		pool.Dispatch(registry.States())
	})
	pool.Dispatch(registry.States())

	if err := publish.NewCommandListener(ctx, registry).Listen(client); err != nil {
		logger.Fatal("failed to subscribe to command topics: %v", err)
	}
	return client
}
