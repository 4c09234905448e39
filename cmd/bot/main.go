package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/mkopaniuk/city-news/internal/app"
	"github.com/mkopaniuk/city-news/internal/bot"
	"github.com/mkopaniuk/city-news/internal/cities"
	"github.com/mkopaniuk/city-news/internal/config"
	"github.com/mkopaniuk/city-news/internal/metrics"
	"github.com/mkopaniuk/city-news/internal/repository"
	loggerService "github.com/mkopaniuk/city-news/internal/services/logger"
	"github.com/mkopaniuk/city-news/internal/services/news"
	"github.com/mkopaniuk/city-news/internal/state"
)

const pollTimeoutSeconds = 30

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewBotConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	logger := log.New(log.Writer(), "CityNewsBot: ", log.LstdFlags)

	db, err := app.CreateSqliteDb(cfg.DB.Dialect, cfg.DB.Source)
	if err != nil {
		logger.Panic(err)
	}
	if err := app.InitSqliteDb(db, cfg.DB.Dialect, cfg.DB.MigrationsPath); err != nil {
		logger.Panic(err)
	}

	fileLogger, err := app.NewFileLogger(cfg.LogsPath)
	if err != nil {
		logger.Panicf("failed to create file logger: %v", err)
	}
	defer func() {
		_ = fileLogger.Sync()
	}()

	m := metrics.New("citynews_bot")

	httpLogClient := &http.Client{
		Transport: loggerService.NewRoundTripper(fileLogger),
	}
	newsClient := news.NewClient(cfg.News.Key, cfg.News.URL, cfg.News.Language, httpLogClient, logger)
	newsService := news.NewService(newsClient, cfg.PageSize, logger, m)

	validator, err := cities.NewValidator(cfg.CitiesPath)
	if err != nil {
		logger.Panicf("failed to load city list: %v", err)
	}

	prefRepo := repository.NewPreferenceRepository(db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ttl := time.Duration(cfg.State.TTLMinutes) * time.Minute
	states, sweeper, err := newStateStore(ctx, cfg.State, ttl, logger)
	if err != nil {
		logger.Panicf("failed to set up conversation store: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		logger.Panicf("failed to connect to Telegram: %v", err)
	}
	logger.Printf("authorized as @%s", api.Self.UserName)

	router := bot.NewRouter(
		bot.NewTelegramSender(api, logger),
		states,
		prefRepo,
		newsService,
		validator,
		logger,
		m,
	)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = pollTimeoutSeconds
	updates := api.GetUpdatesChan(updateCfg)

	// One goroutine per update; a user's own messages arrive one at a
	// time, so their transitions are effectively serialized anyway.
	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			userID := msg.Chat.ID
			if msg.From != nil {
				userID = msg.From.ID
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				router.HandleMessage(ctx, userID, msg.Text)
			}()
		}
	}

	logger.Println("shutting down…")
	api.StopReceivingUpdates()
	if sweeper != nil {
		sweeper.Stop()
	}
	wg.Wait()

	if err := db.Close(); err != nil {
		logger.Println("DB close error:", err)
	}
	logger.Println("bot stopped")
}

// newStateStore picks the conversation-state backend. The in-memory
// store gets a cron janitor that drops stale conversations.
func newStateStore(
	ctx context.Context,
	cfg config.State,
	ttl time.Duration,
	logger *log.Logger,
) (state.Store, *cron.Cron, error) {
	if cfg.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		return state.NewRedisStore(rdb, ttl), nil, nil
	}

	memStore := state.NewMemoryStore(ttl)
	sweeper := cron.New()
	_, err := sweeper.AddFunc(cfg.SweepSpec, func() {
		if dropped := memStore.Sweep(); dropped > 0 {
			logger.Printf("dropped %d stale conversations", dropped)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	sweeper.Start()
	return memStore, sweeper, nil
}
