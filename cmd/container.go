// container.go
package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pyguy/pybot/pkg/ai/llm"
	"github.com/pyguy/pybot/pkg/ai/providers/aigemini"
	"github.com/pyguy/pybot/pkg/ai/providers/aiopenai"
	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/chat/chatapi"
	"github.com/pyguy/pybot/pkg/chat/chatinfra"
	"github.com/pyguy/pybot/pkg/chat/chatsrv"
	"github.com/pyguy/pybot/pkg/config"
	"github.com/pyguy/pybot/pkg/intent"
	"github.com/pyguy/pybot/pkg/logx"
	"github.com/pyguy/pybot/pkg/lookup"
	"github.com/pyguy/pybot/pkg/lookup/lookupinfra"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	Redis *redis.Client
	DB    *sqlx.DB

	// Adapters
	HistoryRepo chat.HistoryRepository
	Generator   chat.Generator
	Searcher    lookup.Searcher
	Classifier  *intent.Classifier

	// Services
	ChatService *chatsrv.ChatService

	// API Handlers
	ChatHandlers *chatapi.ChatHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	logx.Info("Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initHistoryStore(ctx)
	c.initAdapters(ctx)
	c.initServices()

	logx.Info("Container initialized")
	return c
}

func (c *Container) initHistoryStore(ctx context.Context) {
	switch c.Config.Store.Mode {
	case config.StoreModeRedis:
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Store.Redis.Address(),
			Password: c.Config.Store.Redis.Password,
			DB:       c.Config.Store.Redis.DB,
		})
		if _, err := c.Redis.Ping(ctx).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		c.HistoryRepo = chatinfra.NewRedisHistoryRepository(
			c.Redis, c.Config.Chat.MaxTurns, c.Config.Store.Redis.TTL)
		logx.Info("Using Redis conversation store")

	case config.StoreModePostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Store.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Store.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Store.Database.MaxIdleConns)
		c.DB = db

		repo := chatinfra.NewPostgresHistoryRepository(db, c.Config.Chat.MaxTurns)
		if err := repo.EnsureSchema(ctx); err != nil {
			logx.Fatalf("Failed to prepare database schema: %v", err)
		}
		c.HistoryRepo = repo
		logx.Info("Using Postgres conversation store")

	default:
		c.HistoryRepo = chatinfra.NewMemoryHistoryRepository(c.Config.Chat.MaxTurns)
		logx.Warn("Using in-memory conversation store (sessions are lost on restart)")
	}
}

func (c *Container) initAdapters(ctx context.Context) {
	// Generation backend
	var provider llm.LLM
	switch c.Config.AI.Provider {
	case config.ProviderOpenAI:
		provider = aiopenai.NewOpenAIProvider(c.Config.AI.OpenAIAPIKey)
		logx.Infof("Using OpenAI generation backend (model: %s)", c.Config.AI.Model)
	default:
		gemini, err := aigemini.NewGeminiProvider(ctx, c.Config.AI.GeminiAPIKey)
		if err != nil {
			logx.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		provider = gemini
		logx.Infof("Using Gemini generation backend (model: %s)", c.Config.AI.Model)
	}

	c.Generator = chatinfra.NewLLMGenerator(
		llm.NewClient(provider), c.Config.AI.Model, c.Config.AI.Temperature)

	// Lookup backend
	c.Searcher = lookupinfra.NewDuckDuckGoSearcher(c.Config.Chat.LookupTimeout)
	c.Classifier = intent.NewClassifier(
		c.Searcher, c.Config.Chat.DefaultTimezone, c.Config.Chat.LookupTimeout)
}

func (c *Container) initServices() {
	c.ChatService = chatsrv.NewChatService(
		c.HistoryRepo,
		c.Generator,
		c.Classifier,
		c.Config.AI.Timeout,
	)

	c.ChatHandlers = chatapi.NewChatHandlers(
		c.ChatService,
		c.Config.Server.SessionCookie,
		c.Config.IsProd(),
	)
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		}
	}
}
