// Package operator builds the operation descriptors consumed by operate calls.
package operator

import (
	operation_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/operation"
)

func populate(kind operation_models.OpKind, bin string, value any) operation_models.Descriptor {
	return operation_models.Descriptor{
		Operation: kind,
		Bin:       bin,
		Value:     value,
	}
}

func Read(bin string) operation_models.Descriptor {
	return populate(operation_models.Read, bin, nil)
}

func Write(bin string, value any) operation_models.Descriptor {
	return populate(operation_models.Write, bin, value)
}

func Incr(bin string, value any) operation_models.Descriptor {
	return populate(operation_models.Incr, bin, value)
}

func Append(bin string, value any) operation_models.Descriptor {
	return populate(operation_models.Append, bin, value)
}

func Prepend(bin string, value any) operation_models.Descriptor {
	return populate(operation_models.Prepend, bin, value)
}

// Touch resets the record time to live, in seconds.
func Touch(ttl uint32) operation_models.Descriptor {
	return operation_models.Descriptor{
		Operation: operation_models.Touch,
		TTL:       ttl,
	}
}

// Builder maps a bin/value pair into a descriptor.
type Builder func(bin string, value any) operation_models.Descriptor

// FromBins maps every bin into one descriptor, preserving order.
func FromBins(build Builder, bins operation_models.Bins) []operation_models.Descriptor {
	ops := make([]operation_models.Descriptor, 0, len(bins))
	for _, bin := range bins {
		ops = append(ops, build(bin.Name, bin.Value))
	}

	return ops
}
