package main

import (
	"context"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v78"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/TejaNaik15/ai-interview-coach/internal/auth"
	"github.com/TejaNaik15/ai-interview-coach/internal/cache"
	"github.com/TejaNaik15/ai-interview-coach/internal/config"
	"github.com/TejaNaik15/ai-interview-coach/internal/database"
	"github.com/TejaNaik15/ai-interview-coach/internal/gemini"
	"github.com/TejaNaik15/ai-interview-coach/internal/handler"
	"github.com/TejaNaik15/ai-interview-coach/internal/interview"
	"github.com/TejaNaik15/ai-interview-coach/internal/logger"
	"github.com/TejaNaik15/ai-interview-coach/internal/questionbank"
	"github.com/TejaNaik15/ai-interview-coach/internal/repository"
)

type application struct {
	Mongo      *mongo.Client
	Redis      *redis.Client
	Gemini     *gemini.Client
	Logger     *zap.Logger
	Config     *config.Config
	Repository *repository.Repository
	Handler    *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	mongoClient, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		sugar.Fatal(err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		sugar.Fatal(err)
	}

	redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(ctx, redisClient); err != nil {
		sugar.Fatal(err)
	}
	defer redisClient.Close()

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		sugar.Fatal(err)
	}
	defer geminiClient.Close()

	bank, err := questionbank.New()
	if err != nil {
		sugar.Fatal(err)
	}

	if cfg.BillingEnabled() {
		stripe.Key = cfg.Stripe.SecretKey
	}

	repo := repository.NewRepository(db)

	h := &handler.Handler{
		Logger:     log,
		Users:      repo.User,
		Sessions:   repo.Session,
		TokenMaker: auth.NewJWTMaker(cfg.JWT.Secret),
		TokenTTL:   cfg.JWT.AccessTokenTTL,
		Interview:  interview.NewService(geminiClient, log),
		Bank:       bank,
		Registry:   interview.NewRegistry(),
		Redis:      redisClient,
		Stripe:     cfg.Stripe,
	}

	app := &application{
		Mongo:      mongoClient,
		Redis:      redisClient,
		Gemini:     geminiClient,
		Logger:     log,
		Config:     cfg,
		Repository: repo,
		Handler:    h,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
