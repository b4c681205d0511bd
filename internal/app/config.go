package app

import (
	"time"

	"github.com/datapar/analysis-backend/internal/platform/envutil"
	"github.com/datapar/analysis-backend/internal/platform/logger"
	"github.com/datapar/analysis-backend/internal/platform/objstore"
)

type Config struct {
	Port    string
	DBPath  string
	GinMode string

	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	ObjectStore objstore.Config
}

func LoadConfig(log *logger.Logger) Config {
	accessSecret := envutil.String("JWT_SECRET", "secret")
	refreshSecret := envutil.String("REFRESH_SECRET", "refresh_secret")
	if accessSecret == "secret" || refreshSecret == "refresh_secret" {
		log.Warn("Using default token signing secrets; set JWT_SECRET and REFRESH_SECRET in production")
	}

	accessTTLSeconds := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTTLSeconds := envutil.Int("REFRESH_TOKEN_TTL", 604800)

	return Config{
		Port:            envutil.String("PORT", "8080"),
		DBPath:          envutil.String("DB_PATH", "data/app.db"),
		GinMode:         envutil.String("GIN_MODE", ""),
		AccessSecret:    accessSecret,
		RefreshSecret:   refreshSecret,
		AccessTokenTTL:  time.Duration(accessTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTTLSeconds) * time.Second,
		ObjectStore:     objstore.ConfigFromEnv(),
	}
}
