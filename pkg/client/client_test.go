package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpAdapter "github.com/aretw0/toyrobot/pkg/adapters/http"
	"github.com/aretw0/toyrobot/pkg/adapters/memory"
	"github.com/aretw0/toyrobot/pkg/client"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/positions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	srv := httptest.NewServer(httpAdapter.NewHandler(positions.NewManager(memory.NewStore())))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestClient_RoundTrip(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	_, err := c.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotPlaced)

	history, err := c.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	rec, err := c.Record(ctx, domain.Position{X: 2, Y: 4, Direction: domain.West})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)

	latest, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, latest)

	_, err = c.Record(ctx, domain.Position{X: 1, Y: 4, Direction: domain.West})
	require.NoError(t, err)

	history, err = c.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(2), history[0].ID)

	recent, err := c.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestClient_ValidationError(t *testing.T) {
	c := newServer(t)

	_, err := c.Record(context.Background(), domain.Position{X: 7, Y: 0, Direction: domain.North})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "x and y must be between 0 and 4", verr.Reason)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	var terr *domain.TransportError

	_, err = c.Record(ctx, domain.Position{X: 0, Y: 0, Direction: domain.North})
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "record position", terr.Op)

	_, err = c.Latest(ctx)
	assert.ErrorAs(t, err, &terr)

	_, err = c.History(ctx)
	assert.ErrorAs(t, err, &terr)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := client.New(url)
	require.NoError(t, err)

	_, err = c.Latest(context.Background())
	var terr *domain.TransportError
	assert.ErrorAs(t, err, &terr)
	assert.NotErrorIs(t, err, domain.ErrNotPlaced)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := client.New("localhost:8080")
	assert.Error(t, err)

	_, err = client.New("")
	assert.Error(t, err)
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	shared := &http.Client{}
	for name, opts := range map[string][]client.Option{
		"timeout first": {client.WithTimeout(20 * time.Millisecond), client.WithHTTPClient(shared)},
		"timeout last":  {client.WithHTTPClient(shared), client.WithTimeout(20 * time.Millisecond)},
	} {
		t.Run(name, func(t *testing.T) {
			c, err := client.New(srv.URL, opts...)
			require.NoError(t, err)

			start := time.Now()
			_, err = c.Latest(context.Background())
			var terr *domain.TransportError
			assert.ErrorAs(t, err, &terr)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Zero(t, shared.Timeout)
		})
	}
}
