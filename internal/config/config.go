package config

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Price      PriceConfig      `yaml:"price"`
	CORS       CORSConfig       `yaml:"cors"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// DSN собирает строку подключения к postgres.
// extra - дополнительные параметры запроса, например x-migrations-table для мигратора.
func (d DatabaseConfig) DSN(extra url.Values) string {
	query := url.Values{"sslmode": {"disable"}}
	for k, v := range extra {
		query[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// JWTConfig - время жизни токена, выдаваемого вместе с ключами при логине (в минутах).
// Секрет у каждого ключа свой, общего секрета нет.
type JWTConfig struct {
	TokenTTL int `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// ExchangeConfig - валюта котировки и стартовый баланс нового пользователя
type ExchangeConfig struct {
	QuoteCurrency  string `yaml:"quote_currency" env-default:"USD"`
	InitialBalance int64  `yaml:"initial_balance" env-default:"10000"`
}

// PriceConfig настройка поставщика котировок
type PriceConfig struct {
	BaseURL    string        `yaml:"base_url" env:"PRICE_BASE_URL" env-default:"https://api.coingecko.com/api/v3"`
	VsCurrency string        `yaml:"vs_currency" env-default:"usd"`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"*"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	// .env не обязателен, переменные окружения имеют приоритет
	_ = godotenv.Load()

	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}
