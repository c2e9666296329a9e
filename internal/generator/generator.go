// Package generator builds reproducible random item sets for demos, load tests
// and the command-line tool.
package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/guttosm/placement-service/internal/placement"
)

// ErrInvalidConfig is returned when a Config cannot produce an item set.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config controls the shape of a generated item set.
type Config struct {
	Rectangles int
	Squares    int
	MinSide    int
	MaxSide    int
}

// DefaultConfig returns the demo set: five rectangles and four squares with
// sides between 3 and 7.
func DefaultConfig() Config {
	return Config{
		Rectangles: 5,
		Squares:    4,
		MinSide:    3,
		MaxSide:    7,
	}
}

// Validate checks the counts and side range.
func (c Config) Validate() error {
	if c.Rectangles < 0 || c.Squares < 0 {
		return fmt.Errorf("%w: negative item count", ErrInvalidConfig)
	}
	if c.MinSide <= 0 || c.MaxSide < c.MinSide {
		return fmt.Errorf("%w: side range [%d, %d]", ErrInvalidConfig, c.MinSide, c.MaxSide)
	}
	if c.Rectangles > 0 && c.MinSide == c.MaxSide {
		return fmt.Errorf("%w: rectangles need at least two distinct side lengths", ErrInvalidConfig)
	}
	return nil
}

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate returns the rectangles followed by the squares, with ids assigned
// from 0 in generation order. Rectangles never come out square: the height is
// re-drawn until it differs from the width.
func Generate(rng *rand.Rand, cfg Config) ([]placement.Item, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	items := make([]placement.Item, 0, cfg.Rectangles+cfg.Squares)
	id := 0

	for range cfg.Rectangles {
		w := side(rng, cfg)
		h := side(rng, cfg)
		for h == w {
			h = side(rng, cfg)
		}
		items = append(items, placement.NewItem(id, w, h))
		id++
	}

	for range cfg.Squares {
		s := side(rng, cfg)
		items = append(items, placement.NewItem(id, s, s))
		id++
	}

	return items, nil
}

func side(rng *rand.Rand, cfg Config) int {
	return cfg.MinSide + rng.IntN(cfg.MaxSide-cfg.MinSide+1)
}
