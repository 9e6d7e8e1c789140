package linear

// Option is a function that configures OLS
type Option func(*OLS)

// WithConfidenceLevel sets the coverage of the intervals returned by PredictMean.
// The level must lie in (0, 1); Fit rejects anything else.
func WithConfidenceLevel(level float64) Option {
	return func(o *OLS) {
		o.confidenceLevel = level
	}
}

// WithConditionLimit sets the largest design-matrix condition number Fit accepts
// before reporting the design as near-singular.
func WithConditionLimit(limit float64) Option {
	return func(o *OLS) {
		o.conditionLimit = limit
	}
}
