package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/toyrobot/pkg/adapters/memory"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunPositionStoreContract(t, store)
}

func TestMemoryStore_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Append(ctx, domain.Position{X: 1, Y: 1, Direction: domain.North})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := store.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 50)

	seen := make(map[int64]bool)
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
	assert.Equal(t, int64(50), records[0].ID)
}

func TestMemoryStore_RecentZeroLimit(t *testing.T) {
	store := memory.NewStore()
	_, _ = store.Append(context.Background(), domain.Position{X: 0, Y: 0, Direction: domain.North})

	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
