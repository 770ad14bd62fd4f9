package localengine

import (
	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	query_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/query"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type (
	// RecordUDF runs against every record of a background scan.
	// The returned bins are merged into the record and written back;
	// returning nil leaves the record untouched.
	RecordUDF func(rec *record_models.Record, args []any) (record_models.BinMap, error)

	// AggregateUDF folds the records matched by a query into its outputs.
	AggregateUDF func(records []*record_models.Record, args []any) ([]record_models.BinMap, error)
)

func udfName(module, function string) string {
	return module + "." + function
}

func (e *LocalEngine) recordUDF(udf *query_models.UDF) (RecordUDF, error) {
	fn, ok := e.recordUDFs.Load(udfName(udf.Module, udf.Function))
	if !ok {
		return nil, errorsx.Wrapf(errs.ErrUDFNotFound, "%s", udfName(udf.Module, udf.Function))
	}

	return fn, nil
}

func (e *LocalEngine) aggregateUDF(udf *query_models.UDF) (AggregateUDF, error) {
	fn, ok := e.aggregateUDFs.Load(udfName(udf.Module, udf.Function))
	if !ok {
		return nil, errorsx.Wrapf(errs.ErrUDFNotFound, "%s", udfName(udf.Module, udf.Function))
	}

	return fn, nil
}
