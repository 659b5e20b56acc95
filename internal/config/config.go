package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWT    JWT    `envPrefix:"JWT_"`
	Paypal Paypal `envPrefix:"PAYPAL_"`
	VnPay  VnPay  `envPrefix:"VNPAY_"`
	Cart   Cart   `envPrefix:"CART_"`
}

type JWT struct {
	Secret    string        `env:"SECRET"`
	AccessTTL time.Duration `env:"ACCESS_TTL" envDefault:"24h"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type VnPay struct {
	BaseURL      string `env:"BASE_URL"`
	TmnCode      string `env:"TMN_CODE"`
	HashSecret   string `env:"HASH_SECRET"`
	ReturnURL    string `env:"RETURN_URL"`
	Version      string `env:"VERSION" envDefault:"2.1.0"`
	Command      string `env:"COMMAND" envDefault:"pay"`
	CurrCode     string `env:"CURR_CODE" envDefault:"VND"`
	Locale       string `env:"LOCALE" envDefault:"vn"`
	ExchangeRate string `env:"EXCHANGE_RATE" envDefault:"25000"` // USD -> VND
}

type Cart struct {
	RetentionDays int           `env:"RETENTION_DAYS" envDefault:"30"`
	PurgeInterval time.Duration `env:"PURGE_INTERVAL" envDefault:"12h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
