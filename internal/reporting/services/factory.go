package services

import (
	"log/slog"

	"github.com/legaldesk/casectl/internal/cache"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/reporting/apiclient"
)

// DefaultFactory builds Services against the backend configured for the
// active profile, with an in-memory response cache.
func DefaultFactory(cfg config.Hook, logger *slog.Logger) (*Services, error) {
	timeout := cfg.GetDurationOrElse(common.TimeoutConfigPath, apiclient.DefaultTimeout)
	client, err := apiclient.New(cfg.GetString(common.BaseURLConfigPath), timeout, apiclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	ttl := cfg.GetDurationOrElse(common.CacheTTLConfigPath, cache.DefaultTTL)
	size := cfg.GetIntOrElse(common.CacheSizeConfigPath, common.DefaultCacheSize)
	return New(client, cache.New(size, ttl, logger), logger), nil
}
