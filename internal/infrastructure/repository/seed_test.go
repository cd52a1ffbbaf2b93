package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

type memorySeeder struct {
	loads    []*load.Load
	countErr error
}

func (m *memorySeeder) Count(context.Context) (int, error) {
	return len(m.loads), m.countErr
}

func (m *memorySeeder) Create(_ context.Context, l *load.Load) error {
	m.loads = append(m.loads, l)
	return nil
}

func TestSeedSampleLoads(t *testing.T) {
	t.Run("seeds empty repository", func(t *testing.T) {
		repo := &memorySeeder{}

		require.NoError(t, SeedSampleLoads(context.Background(), repo))

		require.Len(t, repo.loads, 3)
		assert.Equal(t, "LOAD001", repo.loads[0].ID)
		for _, l := range repo.loads {
			assert.True(t, l.IsAvailable())
			assert.NotNil(t, l.Weight)
			assert.NotNil(t, l.Miles)
		}
	})

	t.Run("leaves populated repository alone", func(t *testing.T) {
		existing, err := load.NewLoad("LD-1", "a", "b", "2026-09-01 08:00", "2026-09-02 08:00", "Dry Van", 100)
		require.NoError(t, err)
		repo := &memorySeeder{loads: []*load.Load{existing}}

		require.NoError(t, SeedSampleLoads(context.Background(), repo))

		assert.Len(t, repo.loads, 1)
	})

	t.Run("count failure surfaces", func(t *testing.T) {
		repo := &memorySeeder{countErr: errors.New("connection refused")}

		err := SeedSampleLoads(context.Background(), repo)

		require.Error(t, err)
	})
}
