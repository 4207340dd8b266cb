// Package store opens the document store selected by configuration.
package store

import (
	"fmt"

	"github.com/kailas-cloud/mediadex/internal/config"
	"github.com/kailas-cloud/mediadex/internal/db"
	"github.com/kailas-cloud/mediadex/internal/db/elastic"
	"github.com/kailas-cloud/mediadex/internal/db/memory"
)

// Open creates the store named by cfg.Driver. It does not wait for readiness.
func Open(cfg config.StoreConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverElasticsearch:
		s, err := elastic.NewStore(elastic.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			Username:       cfg.Username,
			Password:       cfg.Password,
			Index:          cfg.Index,
			VerifyCerts:    cfg.VerifyCerts,
			RequestTimeout: cfg.RequestTimeout(),
			MaxRetries:     cfg.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		s, err := memory.Load(cfg.FixturesPath)
		if err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
