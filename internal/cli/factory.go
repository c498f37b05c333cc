package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/toyrobot/internal/config"
	"github.com/aretw0/toyrobot/pkg/adapters/memory"
	"github.com/aretw0/toyrobot/pkg/adapters/redis"
	"github.com/aretw0/toyrobot/pkg/adapters/sqlite"
	"github.com/aretw0/toyrobot/pkg/client"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
	"github.com/aretw0/toyrobot/pkg/positions"
)

// Recorder is a ports.PositionRecorder that owns a connection or store handle.
type Recorder interface {
	ports.PositionRecorder
	Close() error
}

// NewManager opens the configured store and wraps it in a positions.Manager.
func NewManager(ctx context.Context, cfg config.Config, logger *slog.Logger) (*positions.Manager, error) {
	opts := []positions.Option{
		positions.WithGrid(domain.Grid{Size: cfg.GridSize}),
		positions.WithLogger(logger),
	}

	var store ports.PositionStore
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.NewStore()

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		store = s

	case config.DriverRedis:
		rc := cfg.Store.Redis
		s := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		if rc.Lock {
			opts = append(opts, positions.WithLocker(redis.NewLocker(s.Client(), rc.Prefix+"lock:")))
		}
		store = s

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	logger.Debug("Position store opened", "driver", cfg.Store.Driver)
	return positions.NewManager(store, opts...), nil
}

// NewRecorder returns the recorder for the interactive client: the local store when
// local is set, the HTTP API otherwise.
func NewRecorder(ctx context.Context, cfg config.Config, local bool, logger *slog.Logger) (Recorder, error) {
	if local {
		return NewManager(ctx, cfg, logger)
	}

	c, err := client.New(cfg.Client.ServerURL, client.WithTimeout(cfg.Client.Timeout))
	if err != nil {
		return nil, err
	}
	return closerRecorder{c}, nil
}

type closerRecorder struct {
	*client.Client
}

func (closerRecorder) Close() error { return nil }
