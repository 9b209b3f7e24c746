package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }
type DBCfg struct{ DSN string }

type PaystackCfg struct {
	SecretKey  string
	BaseURL    string
	TimeoutSec int
}

type AuthCfg struct {
	JWTSecret string
}

type Cfg struct {
	App      AppCfg
	DB       DBCfg
	Paystack PaystackCfg
	Auth     AuthCfg
}

func Load() Cfg {
	// .env is optional; real deployments inject env directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("PAYSTACK_TIMEOUT_SEC", 15)

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		DB: DBCfg{DSN: viper.GetString("DB_DSN")},
		Paystack: PaystackCfg{
			SecretKey:  viper.GetString("PAYSTACK_SECRET_KEY"),
			BaseURL:    viper.GetString("PAYSTACK_BASE_URL"),
			TimeoutSec: viper.GetInt("PAYSTACK_TIMEOUT_SEC"),
		},
		Auth: AuthCfg{JWTSecret: viper.GetString("JWT_SECRET")},
	}

	// Fail fast on required settings
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.Paystack.SecretKey == "" {
		log.Fatal().Msg("PAYSTACK_SECRET_KEY is required")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	return cfg
}
