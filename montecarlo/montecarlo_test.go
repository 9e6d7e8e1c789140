package montecarlo

import (
	"context"
	"math"
	"testing"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/simulation"
)

func TestRunCoverageAndBias(t *testing.T) {
	study := Study{
		Params: simulation.Params{Intercept: 2, Slope: -1.5, ErrorStdDev: 4, SampleSize: 60},
		Trials: 800,
		X0:     5,
	}
	sum, err := Run(context.Background(), study)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Trials != 800 || sum.Failures != 0 {
		t.Errorf("trials = %d, failures = %d", sum.Trials, sum.Failures)
	}
	if sum.TrueMean != 2-1.5*5 {
		t.Errorf("true mean = %v", sum.TrueMean)
	}
	if sum.Coverage < 0.92 || sum.Coverage > 0.98 {
		t.Errorf("coverage = %v, want about 0.95", sum.Coverage)
	}
	// OLS is unbiased
	if math.Abs(sum.MeanSlope-(-1.5)) > 4*sum.StdDevSlope/math.Sqrt(800) {
		t.Errorf("mean slope = %v (sd %v)", sum.MeanSlope, sum.StdDevSlope)
	}
	if math.Abs(sum.MeanIntercept-2) > 4*sum.StdDevIntercept/math.Sqrt(800) {
		t.Errorf("mean intercept = %v (sd %v)", sum.MeanIntercept, sum.StdDevIntercept)
	}
	// ŝ is close to σ on average
	if math.Abs(sum.MeanResidualStdError-4) > 0.2 {
		t.Errorf("mean ŝ = %v, want about 4", sum.MeanResidualStdError)
	}
	if sum.MeanAdjustedR2 >= sum.MeanR2 {
		t.Errorf("adjusted R² %v should be below R² %v", sum.MeanAdjustedR2, sum.MeanR2)
	}
}

func TestRunFlatSlope(t *testing.T) {
	for _, n := range []int{30, 300} {
		sum, err := Run(context.Background(), Study{
			Params: simulation.Params{Slope: 0, ErrorStdDev: 10, SampleSize: n},
			Trials: 300,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		// E[R²] = 1/(n-1) under a flat population line
		if sum.MeanR2 > 3.0/float64(n-1) {
			t.Errorf("n = %d: mean R² = %v", n, sum.MeanR2)
		}
	}
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	base := Study{
		Params:    simulation.Params{Intercept: 1, Slope: 1, ErrorStdDev: 2, SampleSize: 30},
		StartSeed: 500,
		Trials:    64,
		X0:        -2,
	}
	one := base
	one.Workers = 1
	many := base
	many.Workers = 8

	a, err := Run(context.Background(), one)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b, err := Run(context.Background(), many)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	a.DurationMs, b.DurationMs = 0, 0
	if *a != *b {
		t.Errorf("summaries differ between worker counts:\n%+v\n%+v", a, b)
	}
}

func TestRunValidation(t *testing.T) {
	_, err := Run(context.Background(), Study{
		Params: simulation.Params{ErrorStdDev: 1, SampleSize: 10},
	})
	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for zero trials, got %v", err)
	}

	_, err = Run(context.Background(), Study{
		Params: simulation.Params{ErrorStdDev: 1, SampleSize: 2},
		Trials: 10,
	})
	if !errors.Is(err, errors.ErrInvalidSampleSize) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Study{
		Params: simulation.Params{ErrorStdDev: 1, SampleSize: 10},
		Trials: 1000,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
