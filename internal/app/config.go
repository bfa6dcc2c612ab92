package app

import (
	"time"

	"github.com/kitzurapp/qa-backend/internal/logger"
	"github.com/kitzurapp/qa-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// TaxonomyFile optionally overlays the category display labels.
	TaxonomyFile string

	// RedisAddr switches the rate limiter to the Redis backend when set.
	RedisAddr string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	taxonomyFile := utils.GetEnv("TAXONOMY_FILE", "", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	return Config{
		Port:            port,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		TaxonomyFile:    taxonomyFile,
		RedisAddr:       redisAddr,
	}
}
