package errs

import (
	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
)

// client errors
var (
	ErrUnsupportedOperation   = errorsx.New("query udf feature not supported")
	ErrInvalidArgumentCount   = errorsx.New("invalid argument count")
	ErrInvalidArgumentType    = errorsx.New("invalid argument type")
	ErrUnsupportedFilterValue = errorsx.New("unsupported filter value type")
	ErrClientCreation         = errorsx.New("client object creation failed - no engine available")
	ErrStreamReused           = errorsx.New("record stream already executed")
	ErrUnknownEngineKind      = errorsx.New("unknown execution engine kind")
)

// engine errors; they keep their meaning across the wire since errorsx
// matches them by message.
var (
	ErrEngineClosed        = errorsx.New("execution engine closed")
	ErrInvalidNamespace    = errorsx.New("namespace is required")
	ErrInvalidKey          = errorsx.New("invalid record key")
	ErrInvalidFilter       = errorsx.New("invalid query filter")
	ErrInvalidIndexRequest = errorsx.New("invalid index request")
	ErrIndexNotFound       = errorsx.New("secondary index not found")
	ErrIndexAlreadyExists  = errorsx.New("secondary index already exists")
	ErrUDFNotFound         = errorsx.New("udf not registered")
	ErrJobNotFound         = errorsx.New("background job not found")
	ErrRecordNotFound      = errorsx.New("record does not exist")
	ErrRecordExists        = errorsx.New("record already exists")
	ErrGenerationMismatch  = errorsx.New("record generation mismatch")
	ErrIncompatibleBinType = errorsx.New("incompatible bin type")
	ErrInvalidOperation    = errorsx.New("invalid operation")
)
