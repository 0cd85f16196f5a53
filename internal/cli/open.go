package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/entity"
	"github.com/Makepad-fr/tada/internal/entity/jsonstore"
	"github.com/Makepad-fr/tada/internal/entity/memory"
	"github.com/Makepad-fr/tada/internal/entity/s3store"
	"github.com/Makepad-fr/tada/internal/entity/sqlstore"
)

// openClient builds the configured backend and wraps it with logging, plus
// metrics when reg is non-nil. The closer releases backend resources.
func openClient(ctx context.Context, cfg config.Config, logger *log.Logger, reg prometheus.Registerer) (entity.Client, io.Closer, error) {
	var (
		c      entity.Client
		closer io.Closer = nopCloser{}
	)
	switch cfg.Backend {
	case config.BackendMemory:
		c = memory.New()
	case config.BackendJSON:
		path := cfg.JSON.Path
		if path == "" {
			p, err := jsonstore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		c = jsonstore.Open(path)
	case config.BackendSQLite:
		path := cfg.SQLite.Path
		if path == "" {
			path = sqlstore.DefaultSQLiteFile
		}
		s, err := sqlstore.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		c, closer = s, s
	case config.BackendPostgres:
		s, err := sqlstore.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		c, closer = s, s
	case config.BackendS3:
		s, err := s3store.Open(ctx, s3store.Config{
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		c = s
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	mws := []entity.Middleware{entity.Logging(logger.WithPrefix("entity"))}
	if reg != nil {
		mws = append(mws, entity.Metrics(reg))
	}
	logger.Debug("backend ready", "backend", cfg.Backend)
	return entity.Wrap(c, mws...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
