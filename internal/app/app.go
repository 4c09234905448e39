package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/mkopaniuk/city-news/internal/config"
	webHandler "github.com/mkopaniuk/city-news/internal/handlers/web"
	"github.com/mkopaniuk/city-news/internal/metrics"
	"github.com/mkopaniuk/city-news/internal/repository"
	"github.com/mkopaniuk/city-news/internal/services/auth"
	"github.com/mkopaniuk/city-news/internal/services/logger"
	"github.com/mkopaniuk/city-news/internal/services/news"
)

const timeoutDuration = 5 * time.Second

// App wires the web application: public news listing plus
// registration/login and the session-gated pages.
type App struct {
	cfg config.WebConfig
	log *log.Logger
}

type ServiceContainer struct {
	AuthService *auth.Service
	NewsService *news.Service
	UserRepo    *repository.UserRepository
	Metrics     *metrics.Metrics

	Router *gin.Engine
	Srv    *http.Server
	Db     *sql.DB
}

func New(cfg config.WebConfig, logger *log.Logger) *App {
	return &App{cfg: cfg, log: logger}
}

func (a *App) Init() (ServiceContainer, error) {
	db, err := CreateSqliteDb(a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		return ServiceContainer{}, err
	}

	if err := InitSqliteDb(db, a.cfg.DB.Dialect, a.cfg.DB.MigrationsPath); err != nil {
		return ServiceContainer{}, err
	}

	m := metrics.New("citynews_web")

	router := gin.Default()
	router.Use(m.GinMiddleware())
	router.Use(sessions.Sessions("citynews", cookie.NewStore([]byte(a.cfg.SessionSecret))))
	router.LoadHTMLGlob(a.cfg.TemplatesGlob)

	apiServer := &http.Server{
		Addr:        a.cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	fileLogger, err := NewFileLogger(a.cfg.LogsPath)
	if err != nil {
		return ServiceContainer{}, err
	}

	httpLogClient := &http.Client{
		Transport: logger.NewRoundTripper(fileLogger),
	}

	newsClient := news.NewClient(
		a.cfg.News.Key,
		a.cfg.News.URL,
		a.cfg.News.Language,
		httpLogClient,
		a.log,
	)
	newsService := news.NewService(newsClient, a.cfg.PageSize, a.log, m)

	userRepo := repository.NewUserRepository(db, a.log)
	authService := auth.NewService(userRepo, a.log)

	return ServiceContainer{
		AuthService: authService,
		NewsService: newsService,
		UserRepo:    userRepo,
		Metrics:     m,

		Router: router,
		Srv:    apiServer,
		Db:     db,
	}, nil
}

func (a *App) Start(container ServiceContainer) error {
	a.log.Println("Starting server on", a.cfg.Server.Address)

	RegisterRoutes(container, a.log)

	if err := container.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RegisterRoutes attaches the web surface to the router. Split out so
// the integration tests can serve the same routes from httptest.
func RegisterRoutes(container ServiceContainer, log *log.Logger) {
	handler := webHandler.NewHandler(container.AuthService, container.NewsService, log, container.Metrics)

	container.Router.GET("/", handler.Home)
	container.Router.GET("/register", handler.ShowRegister)
	container.Router.POST("/register", handler.Register)
	container.Router.GET("/login", handler.ShowLogin)
	container.Router.POST("/login", handler.Login)

	authorized := container.Router.Group("/", webHandler.RequireAuth)
	{
		authorized.GET("/logout", handler.Logout)
		authorized.GET("/profile", handler.Profile)
	}

	container.Router.GET("/metrics", gin.WrapH(container.Metrics.Handler()))
}

func (a *App) Stop(container ServiceContainer) error {
	a.log.Println("Stopping application…")

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	if err := container.Srv.Shutdown(ctx); err != nil {
		a.log.Println("HTTP shutdown error:", err)
	} else {
		a.log.Println("HTTP server stopped")
	}

	if err := container.Db.Close(); err != nil {
		a.log.Println("DB close error:", err)
	} else {
		a.log.Println("Database closed")
	}

	a.log.Println("Shutdown complete")
	return nil
}
