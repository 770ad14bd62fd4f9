package localengine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	index_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/index"
)

func TestLocalEngine_IndexCreate(t *testing.T) {
	t.Run("missing fields are reported through the callback", func(t *testing.T) {
		e := newTestEngine(t)

		tests := []struct {
			name string
			req  *index_models.Request
		}{
			{name: "nil request"},
			{name: "no namespace", req: &index_models.Request{Bin: "age", IndexName: "age_idx"}},
			{name: "no bin", req: &index_models.Request{Namespace: testNamespace, IndexName: "age_idx"}},
			{name: "no index name", req: &index_models.Request{Namespace: testNamespace, Bin: "age"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				done := make(chan error, 1)
				e.IndexCreate(context.Background(), tc.req, func(err error) { done <- err })

				err := <-done
				require.Error(t, err)
				assert.True(t, errors.Is(err, errs.ErrInvalidIndexRequest))
			})
		}
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		e := newTestEngine(t)

		require.NoError(t, createIndex(t, e, "age_idx", "age", index_models.Numeric))
		err := createIndex(t, e, "age_idx", "age", index_models.Numeric)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrIndexAlreadyExists))
	})

	t.Run("definitions survive a restart", func(t *testing.T) {
		path := t.TempDir()

		e, err := New(context.Background(), WithPath(path))
		require.NoError(t, err)
		require.NoError(t, createIndex(t, e, "name_idx", "name", index_models.String))
		require.NoError(t, e.Close())

		e, err = New(context.Background(), WithPath(path))
		require.NoError(t, err)
		defer func() { require.NoError(t, e.Close()) }()

		idx, ok := e.findIndex(testNamespace, testSet, "name", index_models.String)
		require.True(t, ok)
		assert.Equal(t, "name_idx", idx.Name)

		_, ok = e.findIndex(testNamespace, testSet, "name", index_models.Numeric)
		assert.False(t, ok)
	})

	t.Run("closed engine", func(t *testing.T) {
		e, err := New(context.Background())
		require.NoError(t, err)
		require.NoError(t, e.Close())
		require.NoError(t, e.Close())

		err = createIndex(t, e, "age_idx", "age", index_models.Numeric)
		assert.True(t, errors.Is(err, errs.ErrEngineClosed))
	})
}
