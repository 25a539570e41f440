package main

import (
	"context"

	"github.com/chronophylos/locfinder/config"
	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/logging"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// openBackend opens the history backend selected in conf.
func openBackend(ctx context.Context, conf config.History) (history.Backend, error) {
	logger := logging.Component("history").With().Str("backend", conf.Backend).Logger()

	switch conf.Backend {
	case config.BackendMemory:
		logger.Warn().Msg("History is not persisted")
		return history.NewMemoryBackend(), nil

	case config.BackendFile:
		logger.Info().Str("filename", conf.File).Msg("Using history file")
		return history.NewFileBackend(conf.File), nil

	case config.BackendSQLite:
		b, err := history.OpenSQLite(ctx, conf.SQLite)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("filename", conf.SQLite).Msg("Opened history database")
		return b, nil

	case config.BackendRedis:
		b, err := history.OpenRedis(ctx, &redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}, conf.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("addr", conf.Redis.Addr).
			Str("password", censor(conf.Redis.Password)).
			Int("db", conf.Redis.DB).
			Msg("Connected to redis")
		return b, nil

	case config.BackendMongo:
		b, err := history.OpenMongo(ctx, conf.Mongo.URI, conf.Mongo.Database, conf.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("uri", censorURI(conf.Mongo.URI)).
			Str("database", conf.Mongo.Database).
			Msg("Connected to mongodb")
		return b, nil
	}

	return nil, errors.Errorf("unknown history backend %q", conf.Backend)
}
