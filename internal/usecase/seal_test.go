package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/prodseal/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sealPattern = regexp.MustCompile(`^PS-\d{4}-[A-Z0-9]{6}$`)

func TestSealAllocator_Allocate(t *testing.T) {
	t.Run("returns well-formed seal on first attempt", func(t *testing.T) {
		certRepo := &certRepoMock{
			sealNumberExists: func(ctx context.Context, sealNumber string) (bool, error) {
				return false, nil
			},
		}
		allocator := NewSealAllocator(certRepo, "PS", nopLogger{})

		seal, err := allocator.Allocate(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, sealPattern, seal)
		assert.Equal(t, 1, certRepo.existsCalls)
	})

	t.Run("retries through collisions within budget", func(t *testing.T) {
		collisions := 0
		certRepo := &certRepoMock{
			sealNumberExists: func(ctx context.Context, sealNumber string) (bool, error) {
				if collisions < 4 {
					collisions++
					return true, nil
				}
				return false, nil
			},
		}
		allocator := NewSealAllocator(certRepo, "PS", nopLogger{})

		seal, err := allocator.Allocate(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, sealPattern, seal)
		assert.Equal(t, 5, certRepo.existsCalls)
	})

	t.Run("exhausted budget returns typed fatal error", func(t *testing.T) {
		certRepo := &certRepoMock{
			sealNumberExists: func(ctx context.Context, sealNumber string) (bool, error) {
				return true, nil
			},
		}
		allocator := NewSealAllocator(certRepo, "PS", nopLogger{})

		seal, err := allocator.Allocate(context.Background())

		require.Error(t, err)
		assert.Empty(t, seal)
		assert.Equal(t, 5, certRepo.existsCalls)

		var ce *e.CompletionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, e.CodeAllocationExhausted, ce.Code)
		assert.Equal(t, 5, ce.Payload["attempts"])
	})

	t.Run("repository error propagates", func(t *testing.T) {
		certRepo := &certRepoMock{
			sealNumberExists: func(ctx context.Context, sealNumber string) (bool, error) {
				return false, errors.New("connection refused")
			},
		}
		allocator := NewSealAllocator(certRepo, "PS", nopLogger{})

		_, err := allocator.Allocate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("distinct seals across allocations", func(t *testing.T) {
		certRepo := &certRepoMock{
			sealNumberExists: func(ctx context.Context, sealNumber string) (bool, error) {
				return false, nil
			},
		}
		allocator := NewSealAllocator(certRepo, "PS", nopLogger{})

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			seal, err := allocator.Allocate(context.Background())
			require.NoError(t, err)
			assert.False(t, seen[seal], "seal %s allocated twice", seal)
			seen[seal] = true
		}
	})
}
