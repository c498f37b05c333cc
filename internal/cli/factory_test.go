package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toyrobot/internal/config"
	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
)

func TestNewManager_Drivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name  string
		setup func(cfg *config.Config)
	}{
		{"memory", func(cfg *config.Config) {
			cfg.Store.Driver = config.DriverMemory
		}},
		{"sqlite", func(cfg *config.Config) {
			cfg.Store.Driver = config.DriverSQLite
			cfg.Store.Path = filepath.Join(t.TempDir(), "robot.db")
		}},
		{"redis", func(cfg *config.Config) {
			cfg.Store.Driver = config.DriverRedis
			cfg.Store.Redis.Addr = mr.Addr()
			cfg.Store.Redis.Lock = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.setup(&cfg)

			mgr, err := NewManager(ctx, cfg, logging.NewNop())
			require.NoError(t, err)
			defer mgr.Close()

			rec, err := mgr.Append(ctx, domain.Position{X: 1, Y: 1, Direction: domain.East})
			require.NoError(t, err)

			latest, err := mgr.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, rec, latest)
		})
	}
}

func TestNewManager_GridSize(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory
	cfg.GridSize = 10

	mgr, err := NewManager(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 10, mgr.Grid().Size)
}

func TestNewManager_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Store.Driver = config.DriverRedis
	cfg.Store.Redis.Addr = addr

	_, err := NewManager(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewRecorder(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.Driver = config.DriverMemory

	local, err := NewRecorder(ctx, cfg, true, logging.NewNop())
	require.NoError(t, err)
	_, err = local.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotPlaced)
	require.NoError(t, local.Close())

	remote, err := NewRecorder(ctx, cfg, false, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, remote.Close())

	cfg.Client.ServerURL = "localhost"
	_, err = NewRecorder(ctx, cfg, false, logging.NewNop())
	assert.Error(t, err)
}
