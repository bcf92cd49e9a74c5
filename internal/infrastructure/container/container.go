package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/NikkahFirst/mobile-app-sub000/internal/config"
	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http"
	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/handler"
	"github.com/NikkahFirst/mobile-app-sub000/internal/delivery/http/middleware"
	"github.com/NikkahFirst/mobile-app-sub000/internal/infrastructure/database"
	"github.com/NikkahFirst/mobile-app-sub000/internal/infrastructure/server"
	"github.com/NikkahFirst/mobile-app-sub000/internal/infrastructure/storage"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository/postgres"
	"github.com/NikkahFirst/mobile-app-sub000/internal/repository/redis"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/auth"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/gate"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/profile"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/quota"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/relationship"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/search"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/visibility"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *goredis.Client
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	requestRepo := postgres.NewMatchRequestRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	revealRepo := postgres.NewPhotoRevealRepository(db)
	quotaStore := redis.NewQuotaStore(redisClient)
	remediationStore := redis.NewRemediationStore(redisClient)

	// Initialize storage
	var storageService storage.SignedURLService
	if cfg.Storage.BaseURL != "" {
		storageService = storage.NewSupabaseStorageService(
			cfg.Storage.BaseURL,
			cfg.Storage.Bucket,
			cfg.Storage.ServiceKey,
			cfg.Storage.SignedURLTTL,
		)
	}

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		accountRepo,
		sessionRepo,
		remediationStore,
		cfg.JWT.Secret,
		cfg.JWT.SessionExpiry,
	)

	profileResolver := gate.NewProfileResolver(profileRepo)
	gateUseCase := gate.NewGateUseCase(profileResolver, remediationStore, gate.DefaultPaths())

	relationshipUseCase := relationship.NewRelationshipUseCase(requestRepo, matchRepo, revealRepo)
	visibilityUseCase := visibility.NewVisibilityUseCase(profileRepo, relationshipUseCase)
	quotaUseCase := quota.NewQuotaUseCase(profileRepo, quotaStore, cfg.Quota.DailyViewLimit)
	profileUseCase := profile.NewProfileUseCase(profileRepo)
	searchUseCase := search.NewSearchUseCase(profileRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	gateHandler := handler.NewGateHandler(gateUseCase, cfg.JWT.SessionExpiry)
	profileHandler := handler.NewProfileHandler(profileUseCase, quotaUseCase, visibilityUseCase, storageService)
	relationshipHandler := handler.NewRelationshipHandler(relationshipUseCase)
	searchHandler := handler.NewSearchHandler(searchUseCase, quotaUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		gateHandler,
		profileHandler,
		relationshipHandler,
		searchHandler,
		authMiddleware,
	)

	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
