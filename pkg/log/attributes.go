// Package log defines standard attribute keys for simulation and fitting operations.
//
// Using these keys consistently lets the CLI, the HTTP server and the engine
// emit logs that can be filtered by operation, sample shape or fit outcome.
// Keys follow a hierarchical naming convention ("data.samples",
// "metrics.r2_score").

package log

// Operation context.
const (
	// ComponentKey identifies which package is logging.
	// Examples: "simulation", "montecarlo", "server"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ModelNameKey identifies the estimator. Always "OLS" today.
	ModelNameKey = "model.name"

	// SessionIDKey identifies a caller-held simulation session.
	SessionIDKey = "session.id"

	// RequestIDKey identifies an HTTP request.
	RequestIDKey = "http.request_id"
)

// Population parameters and sample shape.
const (
	InterceptKey   = "population.intercept"
	SlopeKey       = "population.slope"
	ErrorStdDevKey = "population.error_sd"

	// SamplesKey indicates the number of observations drawn.
	SamplesKey = "data.samples"

	// RegressorsKey indicates the number of columns in the design matrix.
	RegressorsKey = "data.regressors"

	// RandomSeedKey records the seed that produced a draw.
	RandomSeedKey = "config.random_seed"
)

// Fit outcome and performance.
const (
	R2ScoreKey          = "metrics.r2_score"
	ResidualStdErrorKey = "metrics.residual_std_error"
	ConditionNumberKey  = "metrics.condition_number"
	CoverageKey         = "metrics.ci_coverage"
	TrialsKey           = "study.trials"
	WorkersKey          = "study.workers"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationGenerate = "generate"
	OperationFit      = "fit"
	OperationResample = "resample"
	OperationStudy    = "study"
	OperationRender   = "render"

	ErrorInvalidSampleSize = "INVALID_SAMPLE_SIZE"
	ErrorInvalidVariance   = "INVALID_VARIANCE"
	ErrorComputation       = "COMPUTATION_ERROR"
	ErrorInvalidInput      = "INVALID_INPUT"
)
