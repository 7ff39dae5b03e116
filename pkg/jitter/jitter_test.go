package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 50; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestExponentialBackoff(t *testing.T) {
	const (
		base = time.Second
		max  = 8 * time.Second
	)

	t.Run("grows with attempt number", func(t *testing.T) {
		d0 := ExponentialBackoff(base, max, 0, 0)
		d2 := ExponentialBackoff(base, max, 2, 0)

		assert.Equal(t, base, d0)
		assert.Equal(t, 4*time.Second, d2)
	})

	t.Run("is capped at max", func(t *testing.T) {
		d := ExponentialBackoff(base, max, 10, 0)
		assert.Equal(t, max, d)
	})

	t.Run("jitter stays within factor bounds", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			d := ExponentialBackoff(base, max, 1, DefaultJitter)
			assert.GreaterOrEqual(t, d, 2*time.Second)
			assert.LessOrEqual(t, d, 3*time.Second)
		}
	})
}
