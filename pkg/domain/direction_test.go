package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_RotateCycle(t *testing.T) {
	for _, d := range domain.Directions() {
		got := d
		for i := 0; i < 4; i++ {
			got = got.Rotate(domain.Left)
		}
		assert.Equal(t, d, got, "four left turns from %s", d)

		got = d
		for i := 0; i < 4; i++ {
			got = got.Rotate(domain.Right)
		}
		assert.Equal(t, d, got, "four right turns from %s", d)
	}
}

func TestDirection_RotateOrder(t *testing.T) {
	tests := []struct {
		from domain.Direction
		turn domain.Turn
		want domain.Direction
	}{
		{domain.North, domain.Left, domain.West},
		{domain.West, domain.Left, domain.South},
		{domain.South, domain.Left, domain.East},
		{domain.East, domain.Left, domain.North},
		{domain.North, domain.Right, domain.East},
		{domain.East, domain.Right, domain.South},
		{domain.South, domain.Right, domain.West},
		{domain.West, domain.Right, domain.North},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.turn.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Rotate(tt.turn))
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := domain.ParseDirection("south")
	require.NoError(t, err)
	assert.Equal(t, domain.South, d)
	assert.Equal(t, "SOUTH", d.String())
	assert.Equal(t, "south", d.Wire())

	for _, bad := range []string{"", "NORTH", "up", "North "} {
		_, err := domain.ParseDirection(bad)
		assert.Error(t, err, bad)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestDirection_JSON(t *testing.T) {
	b, err := json.Marshal(domain.Record{ID: 7, X: 1, Y: 2, Direction: domain.West})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"x":1,"y":2,"direction":"west"}`, string(b))

	var rec domain.Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"x":4,"y":0,"direction":"east"}`), &rec))
	assert.Equal(t, domain.East, rec.Direction)

	err = json.Unmarshal([]byte(`{"id":3,"x":4,"y":0,"direction":"up"}`), &rec)
	assert.Error(t, err)

	_, err = json.Marshal(domain.Position{})
	assert.Error(t, err, "zero direction must not be encoded")
}

func TestParseTurn(t *testing.T) {
	turn, err := domain.ParseTurn("Left")
	require.NoError(t, err)
	assert.Equal(t, domain.Left, turn)

	turn, err = domain.ParseTurn("RIGHT")
	require.NoError(t, err)
	assert.Equal(t, domain.Right, turn)

	_, err = domain.ParseTurn("back")
	assert.Error(t, err)
}
