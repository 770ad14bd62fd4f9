package localengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

func TestNew(t *testing.T) {
	t.Run("defaults to an in memory store", func(t *testing.T) {
		e := newTestEngine(t)
		assert.True(t, e.inMemory)
		assert.Equal(t, defaultWorkers, e.workers)
		assert.False(t, e.silentStore)
	})

	t.Run("config selects an on disk silent store", func(t *testing.T) {
		cfg := &driver_config.Local{
			Path:        t.TempDir(),
			SilentStore: true,
			Workers:     2,
		}

		e, err := New(context.Background(), WithConfig(cfg))
		require.NoError(t, err)
		assert.False(t, e.inMemory)
		assert.True(t, e.silentStore)
		assert.Equal(t, 2, e.workers)

		put(t, e, "ada", "age", 36)
		require.NoError(t, e.Close())

		e, err = New(context.Background(), WithPath(cfg.Path), WithSilentStore())
		require.NoError(t, err)
		defer func() { require.NoError(t, e.Close()) }()

		rec, err := operateSync(t, e, record_models.NewKey(testNamespace, testSet, "ada"), nil, nil, read("age"))
		require.NoError(t, err)
		assert.Equal(t, int64(36), rec.Bins["age"])
	})

	t.Run("non positive workers keep the default", func(t *testing.T) {
		e := newTestEngine(t, WithWorkers(0))
		assert.Equal(t, defaultWorkers, e.workers)
	})
}
