package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
)

func TestDescriptors(t *testing.T) {
	tests := map[string]struct {
		got  operation_models.Descriptor
		want operation_models.Descriptor
	}{
		"read": {
			got:  Read("name"),
			want: operation_models.Descriptor{Operation: operation_models.Read, Bin: "name"},
		},
		"write": {
			got:  Write("name", "ada"),
			want: operation_models.Descriptor{Operation: operation_models.Write, Bin: "name", Value: "ada"},
		},
		"incr": {
			got:  Incr("age", 1),
			want: operation_models.Descriptor{Operation: operation_models.Incr, Bin: "age", Value: 1},
		},
		"append": {
			got:  Append("name", "!"),
			want: operation_models.Descriptor{Operation: operation_models.Append, Bin: "name", Value: "!"},
		},
		"prepend": {
			got:  Prepend("name", "dr. "),
			want: operation_models.Descriptor{Operation: operation_models.Prepend, Bin: "name", Value: "dr. "},
		},
		"touch": {
			got:  Touch(60),
			want: operation_models.Descriptor{Operation: operation_models.Touch, TTL: 60},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestFromBins(t *testing.T) {
	t.Run("keeps bin order", func(t *testing.T) {
		bins := operation_models.NewBins("c", 3, "a", 1, "b", 2)
		ops := FromBins(Incr, bins)

		assert.Len(t, ops, 3)
		for idx, op := range ops {
			assert.Equal(t, operation_models.Incr, op.Operation)
			assert.Equal(t, bins[idx].Name, op.Bin)
			assert.Equal(t, bins[idx].Value, op.Value)
		}
	})

	t.Run("empty bins", func(t *testing.T) {
		ops := FromBins(Write, nil)
		assert.NotNil(t, ops)
		assert.Empty(t, ops)
	})
}
