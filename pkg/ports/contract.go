package ports

import (
	"context"
	"testing"

	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPositionStoreContract verifies that an adapter honours the PositionStore semantics.
// The store must be empty when passed in.
func RunPositionStoreContract(t *testing.T, store PositionStore) {
	ctx := context.Background()

	t.Run("Latest on empty log", func(t *testing.T) {
		_, err := store.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrNotPlaced)

		records, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	var last domain.Record

	t.Run("Append and Latest round-trip", func(t *testing.T) {
		pos := domain.Position{X: 4, Y: 1, Direction: domain.South}
		rec, err := store.Append(ctx, pos)
		require.NoError(t, err, "Append should not return error")
		assert.Positive(t, rec.ID)
		assert.Equal(t, pos, rec.Position())

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, rec, latest)
		last = rec
	})

	t.Run("Ids strictly increase", func(t *testing.T) {
		moves := []domain.Position{
			{X: 0, Y: 0, Direction: domain.North},
			{X: 0, Y: 1, Direction: domain.North},
			{X: 0, Y: 1, Direction: domain.East},
		}
		for _, pos := range moves {
			rec, err := store.Append(ctx, pos)
			require.NoError(t, err)
			assert.Greater(t, rec.ID, last.ID)
			last = rec
		}

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, last, latest)
		assert.Equal(t, domain.East, latest.Direction)
	})

	t.Run("Recent is newest first and capped", func(t *testing.T) {
		records, err := store.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, last, records[0])
		assert.Greater(t, records[0].ID, records[1].ID)

		all, err := store.Recent(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.Greater(t, all[i-1].ID, all[i].ID)
		}
	})
}
