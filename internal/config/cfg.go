package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Db struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_NAME" default:"citynews.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_DIR" default:"./migrations"`
}

type NewsAPI struct {
	Key      string `envconfig:"NEWS_API_KEY" required:"true"`
	URL      string `envconfig:"NEWS_API_URL" default:"https://newsapi.org/v2/everything"`
	Language string `envconfig:"NEWS_LANGUAGE" default:"uk"`
}

type State struct {
	Backend    string `envconfig:"STATE_BACKEND" default:"memory"`
	TTLMinutes int    `envconfig:"STATE_TTL_MINUTES" default:"30"`
	SweepSpec  string `envconfig:"STATE_SWEEP_SPEC" default:"@every 5m"`
	RedisAddr  string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
}

// BotConfig is everything the Telegram bot binary needs.
type BotConfig struct {
	Token      string `envconfig:"BOT_TOKEN" required:"true"`
	PageSize   int    `envconfig:"BOT_NEWS_PAGE_SIZE" default:"5"`
	CitiesPath string `envconfig:"CITIES_PATH" default:"./data/popular_cities.json"`
	LogsPath   string `envconfig:"LOGS_PATH" default:"./logs/bot_http.log"`

	DB    Db
	News  NewsAPI
	State State
}

// WebConfig is everything the web binary needs.
type WebConfig struct {
	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	PageSize      int    `envconfig:"WEB_NEWS_PAGE_SIZE" default:"20"`
	TemplatesGlob string `envconfig:"TEMPLATES_GLOB" default:"./web/templates/*.html"`
	LogsPath      string `envconfig:"LOGS_PATH" default:"./logs/web_http.log"`

	Server Server
	DB     Db
	News   NewsAPI
}

func NewBotConfig() (*BotConfig, error) {
	var cfg BotConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func NewWebConfig() (*WebConfig, error) {
	var cfg WebConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
