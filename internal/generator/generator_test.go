package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultConfig(t *testing.T) {
	items, err := Generate(NewRand(42), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, items, 9)

	for i, it := range items {
		assert.Equal(t, i, it.ID)
		assert.GreaterOrEqual(t, it.Width, 3)
		assert.LessOrEqual(t, it.Width, 7)
		assert.GreaterOrEqual(t, it.Height, 3)
		assert.LessOrEqual(t, it.Height, 7)

		if i < 5 {
			assert.False(t, it.IsSquare, "item %d should be a rectangle", i)
			assert.NotEqual(t, it.Width, it.Height)
		} else {
			assert.True(t, it.IsSquare, "item %d should be a square", i)
			assert.Equal(t, it.Width, it.Height)
		}
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	a, err := Generate(NewRand(7), DefaultConfig())
	require.NoError(t, err)
	b, err := Generate(NewRand(7), DefaultConfig())
	require.NoError(t, err)
	c, err := Generate(NewRand(8), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "squares only with single side", cfg: Config{Squares: 3, MinSide: 2, MaxSide: 2}},
		{name: "empty set", cfg: Config{MinSide: 1, MaxSide: 1}},
		{name: "negative count", cfg: Config{Rectangles: -1, MinSide: 1, MaxSide: 3}, wantErr: true},
		{name: "zero min side", cfg: Config{Squares: 1, MinSide: 0, MaxSide: 3}, wantErr: true},
		{name: "inverted range", cfg: Config{Squares: 1, MinSide: 5, MaxSide: 3}, wantErr: true},
		{name: "rectangles with single side", cfg: Config{Rectangles: 1, MinSide: 4, MaxSide: 4}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	items, err := Generate(NewRand(1), Config{Rectangles: 2, MinSide: 3, MaxSide: 3})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, items)
}
