package main

import (
	"context"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/donteatkebab/backend/internal/config"
	"github.com/donteatkebab/backend/internal/handlers"
	"github.com/donteatkebab/backend/internal/logger"
	"github.com/donteatkebab/backend/internal/services"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	mongoClient, err := services.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongo")
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDatabase)
	profiles := services.NewMongoProfileService(db)
	weights := services.NewMongoWeightService(ctx, db)

	var (
		identity  services.IdentityProvider
		avatars   services.AvatarStore
		uploadDir string
	)
	switch cfg.AuthBackend {
	case "local":
		local, err := services.NewLocalIdentityService(cfg.DataDir, cfg.JWTSecret, cfg.JWTExpiration, cfg.RefreshExpiration)
		if err != nil {
			log.Fatal().Err(err).Msg("init local identity backend")
		}
		identity = local
		avatars = services.NewLocalAvatarService(cfg.UploadDir)
		uploadDir = cfg.UploadDir
		log.Warn().Msg("using local identity backend; not for production")

	default:
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{
			ProjectID:     cfg.FirebaseProjectID,
			StorageBucket: cfg.StorageBucket,
		}, opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("init firebase app")
		}

		identity, err = services.NewFirebaseIdentityService(ctx, app, cfg.FirebaseAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("init firebase identity")
		}
		avatars, err = services.NewGCSAvatarService(ctx, app, cfg.StorageBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("init avatar storage")
		}
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		UploadDir:      uploadDir,
	}, identity, profiles, weights, avatars, log)

	log.Info().Str("addr", cfg.ServerAddress).Str("auth_backend", cfg.AuthBackend).Msg("starting server")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
