package argsresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

func TestResolveOperateArgs(t *testing.T) {
	key := record_models.NewKey("test", "users", "ada")
	bins := operation_models.NewBins("age", 36)
	md := &operation_models.Metadata{TTL: 60, Generation: 2}
	policy := &operation_models.Policy{Exists: operation_models.ExistsUpdate}

	var called bool
	cb := func(*record_models.Record, error) { called = true }

	t.Run("three arguments leave metadata and policy absent", func(t *testing.T) {
		called = false
		resolved, err := ResolveOperateArgs(key, bins, cb)
		require.NoError(t, err)
		assert.False(t, resolved.Metadata.IsPresent())
		assert.False(t, resolved.Policy.IsPresent())

		resolved.Callback(nil, nil)
		assert.True(t, called)
	})

	t.Run("four arguments carry metadata", func(t *testing.T) {
		resolved, err := ResolveOperateArgs(key, bins, md, cb)
		require.NoError(t, err)

		got, ok := resolved.Metadata.Get()
		require.True(t, ok)
		assert.Equal(t, md, got)
		assert.False(t, resolved.Policy.IsPresent())
	})

	t.Run("five arguments carry metadata and policy", func(t *testing.T) {
		resolved, err := ResolveOperateArgs(key, bins, md, policy, cb)
		require.NoError(t, err)

		gotMD, ok := resolved.Metadata.Get()
		require.True(t, ok)
		assert.Equal(t, md, gotMD)

		gotPolicy, ok := resolved.Policy.Get()
		require.True(t, ok)
		assert.Equal(t, policy, gotPolicy)
	})

	t.Run("nil metadata and policy are absent", func(t *testing.T) {
		resolved, err := ResolveOperateArgs(key, bins, nil, (*operation_models.Policy)(nil), cb)
		require.NoError(t, err)
		assert.False(t, resolved.Metadata.IsPresent())
		assert.False(t, resolved.Policy.IsPresent())
	})

	t.Run("value metadata and policy are accepted", func(t *testing.T) {
		resolved, err := ResolveOperateArgs(key, bins, *md, *policy, cb)
		require.NoError(t, err)
		assert.Equal(t, md.TTL, resolved.Metadata.OrEmpty().TTL)
		assert.Equal(t, policy.Exists, resolved.Policy.OrEmpty().Exists)
	})

	t.Run("named callback type is accepted", func(t *testing.T) {
		resolved, err := ResolveOperateArgs(key, bins, operation_models.Callback(cb))
		require.NoError(t, err)
		assert.NotNil(t, resolved.Callback)
	})

	t.Run("argument count out of range", func(t *testing.T) {
		tests := map[string][]any{
			"none":  nil,
			"one":   {cb},
			"two":   {key, cb},
			"six":   {key, bins, md, policy, nil, cb},
			"seven": {key, bins, md, policy, nil, nil, cb},
		}

		for name, args := range tests {
			t.Run(name, func(t *testing.T) {
				resolved, err := ResolveOperateArgs(args...)
				assert.ErrorIs(t, err, errs.ErrInvalidArgumentCount)
				assert.Nil(t, resolved)
			})
		}
	})

	t.Run("wrong argument types", func(t *testing.T) {
		tests := map[string][]any{
			"callback is not a function": {key, bins, "callback"},
			"callback with wrong shape":  {key, bins, func(error) {}},
			"nil callback":               {key, bins, nil},
			"metadata of wrong type":     {key, bins, "md", cb},
			"policy of wrong type":       {key, bins, md, 42, cb},
		}

		for name, args := range tests {
			t.Run(name, func(t *testing.T) {
				resolved, err := ResolveOperateArgs(args...)
				assert.ErrorIs(t, err, errs.ErrInvalidArgumentType)
				assert.Nil(t, resolved)
			})
		}
	})
}
