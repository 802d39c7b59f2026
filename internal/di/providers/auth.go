package providers

import (
	"github.com/samber/do/v2"

	"github.com/readlog/readlog-server/internal/auth"
	"github.com/readlog/readlog-server/internal/config"
	"github.com/readlog/readlog-server/internal/logger"
)

// AuthKey is the hex-encoded PASETO key.
type AuthKey string

// ProvideAuthKey uses the configured key, or loads or generates the key file.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AccessTokenKey != "" {
		log.Info("Authentication key taken from configuration",
			"access_token_duration", cfg.Auth.AccessTokenDuration,
		)
		return AuthKey(cfg.Auth.AccessTokenKey), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.AuthKeyPath())
	if err != nil {
		return "", err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"path", cfg.Data.AuthKeyPath(),
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}
