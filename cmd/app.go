package cmd

import (
	"fmt"

	"StillFM/config"
	"StillFM/core/admin"
	"StillFM/core/api"
	"StillFM/core/auth"
	"StillFM/core/catalog"
	"StillFM/core/player"
	"StillFM/core/session"
	"StillFM/logger"
	"StillFM/store"
)

// app wires the client components together for CLI commands.
type app struct {
	cfg      *config.Config
	store    *store.RedisStore
	identity *auth.IdentityStore
	device   *auth.DeviceIdentity
	auth     *auth.Client
	catalog  *catalog.Client
	tracker  *session.Tracker
	admin    *admin.Controller
	player   *player.Player
}

// newApp loads configuration, initializes logging and builds the component
// graph. The auth client gets its own API client with bearer delivery; the
// catalog shares one whose authorization strategy is selected by the
// configured admin auth mode.
func newApp() (*app, error) {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	})

	redisStore, err := store.NewRedisStore(cfg)
	if err != nil {
		return nil, err
	}

	identity := auth.NewIdentityStore(redisStore)
	device := auth.NewDeviceIdentity(redisStore)
	authClient := auth.NewClient(api.NewClient(cfg.APIBaseURL), identity)

	adminAPI := api.NewClient(cfg.APIBaseURL)
	authorizer, err := api.AuthorizerFor(cfg, identity)
	if err != nil {
		redisStore.Close()
		return nil, fmt.Errorf("failed to configure admin auth: %w", err)
	}
	adminAPI.SetAuthorizer(authorizer)

	catalogClient := catalog.New(adminAPI)
	tracker := session.NewTracker(adminAPI, device)

	p := player.New(tracker)
	p.SetSpeed(cfg.PlaybackSpeed)

	return &app{
		cfg:      cfg,
		store:    redisStore,
		identity: identity,
		device:   device,
		auth:     authClient,
		catalog:  catalogClient,
		tracker:  tracker,
		admin:    admin.NewController(catalogClient),
		player:   p,
	}, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close store", logger.ErrorField(err))
	}
}
