package simulation

import (
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

// scriptedSource は決まった説明変数と誤差を返すテスト用の乱数源
type scriptedSource struct {
	x     func(i int) float64
	noise float64
	i     int
}

func (s *scriptedSource) Uniform(min, max float64) float64 {
	v := s.x(s.i)
	s.i++
	return v
}

func (s *scriptedSource) Normal(mean, stddev float64) float64 {
	return mean + s.noise
}

func relClose(a, b, tol float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b) <= tol*scale
}

func TestGenerateSeedZeroScenario(t *testing.T) {
	res, err := Generate(Params{Intercept: 0, Slope: 1, ErrorStdDev: 1, SampleSize: 100, Seed: 0})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if math.Abs(res.Coefficients[0]-0) > 4*res.StdErrors[0] {
		t.Errorf("b0 = %v (se %v), expected close to 0", res.Coefficients[0], res.StdErrors[0])
	}
	if math.Abs(res.Coefficients[1]-1) > 4*res.StdErrors[1] {
		t.Errorf("b1 = %v (se %v), expected close to 1", res.Coefficients[1], res.StdErrors[1])
	}
	if res.RSquared <= 0.8 {
		t.Errorf("R² = %v, expected > 0.8", res.RSquared)
	}
	if res.N() != 100 || res.DegreesOfFreedom != 98 {
		t.Errorf("n = %d, df = %d", res.N(), res.DegreesOfFreedom)
	}
}

func TestGenerateShape(t *testing.T) {
	res, err := Generate(Params{Intercept: 1.5, Slope: -2, ErrorStdDev: 3, SampleSize: 40, Seed: 11})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r, c := res.Design.Dims()
	if r != 40 || c != 2 {
		t.Fatalf("design is %dx%d, want 40x2", r, c)
	}
	for _, l := range []int{len(res.X), len(res.Y), len(res.Fitted), len(res.Residuals), len(res.Intervals)} {
		if l != 40 {
			t.Fatalf("unexpected length %d", l)
		}
	}
	for i := 0; i < 40; i++ {
		if res.Design.At(i, 0) != 1 || res.Design.At(i, 1) != res.X[i] {
			t.Fatalf("row %d is (%v, %v), want (1, %v)", i, res.Design.At(i, 0), res.Design.At(i, 1), res.X[i])
		}
		if res.X[i] < XMin || res.X[i] > XMax {
			t.Errorf("x[%d] = %v outside [%v, %v]", i, res.X[i], XMin, XMax)
		}
		if res.Residuals[i] != res.Y[i]-res.Fitted[i] {
			t.Errorf("residual %d is not y - ŷ", i)
		}
		iv := res.Intervals[i]
		if !iv.Contains(res.Fitted[i]) {
			t.Errorf("interval %d %+v does not contain ŷ = %v", i, iv, res.Fitted[i])
		}
		// the interval at a design point agrees with the covariance-based one
		other := res.MeanResponseInterval(res.X[i])
		if math.Abs(other.Lower-iv.Lower) > 1e-9 || math.Abs(other.Upper-iv.Upper) > 1e-9 {
			t.Errorf("interval %d mismatch: %+v vs %+v", i, iv, other)
		}
	}
	if res.ConfidenceLevel != DefaultConfidenceLevel {
		t.Errorf("confidence level = %v", res.ConfidenceLevel)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := Params{Intercept: -3.2, Slope: 0.7, ErrorStdDev: 4.5, SampleSize: 250, Seed: 1234}
	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical parameters produced different results")
	}

	// results must not alias each other
	a.Y[0] = math.Inf(1)
	if b.Y[0] == a.Y[0] {
		t.Error("results share response storage")
	}

	c, err := Generate(p.WithSeed(1235))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reflect.DeepEqual(b.X, c.X) {
		t.Error("different seeds produced the same regressors")
	}
}

func TestGenerateInterceptInvariance(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 9999} {
		base := Params{Intercept: 0, Slope: 2, ErrorStdDev: 5, SampleSize: 200, Seed: seed}
		shifted := base
		shifted.Intercept = 7

		a, err := Generate(base)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		b, err := Generate(shifted)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if math.Abs(a.RSquared-b.RSquared) > 1e-12 {
			t.Errorf("seed %d: R² changed with β₀: %v vs %v", seed, a.RSquared, b.RSquared)
		}
		if math.Abs((b.Coefficients[0]-a.Coefficients[0])-7) > 1e-9 {
			t.Errorf("seed %d: intercept estimate should shift by 7", seed)
		}
	}
}

func TestGenerateAlgebraicIdentities(t *testing.T) {
	cases := []Params{
		{Intercept: 0, Slope: 0, ErrorStdDev: 10, SampleSize: 500},
		{Intercept: 10, Slope: 5, ErrorStdDev: 0.1, SampleSize: 1000},
		{Intercept: -10, Slope: -5, ErrorStdDev: 20, SampleSize: 10},
		{Intercept: 2.5, Slope: 0.3, ErrorStdDev: 1, SampleSize: 3},
		{Intercept: 0, Slope: 1, ErrorStdDev: 1, SampleSize: 100},
	}
	for _, p := range cases {
		for seed := uint64(0); seed < 20; seed++ {
			res, err := Generate(p.WithSeed(seed))
			if err != nil {
				t.Fatalf("%+v: %v", p, err)
			}
			n := float64(res.N())
			fit := res.Fit

			// ŝ²(n-2) = SSE
			s2 := res.ResidualStdError * res.ResidualStdError
			if !relClose(s2*(n-2), fit.SSE, 1e-9) {
				t.Errorf("%+v: ŝ²(n-2) = %v, SSE = %v", p, s2*(n-2), fit.SSE)
			}
			// SST = SSR + SSE
			if !relClose(fit.SST, fit.SSR+fit.SSE, 1e-6) {
				t.Errorf("%+v: SST = %v, SSR + SSE = %v", p, fit.SST, fit.SSR+fit.SSE)
			}
			// 0 <= R² <= 1
			if res.RSquared < -1e-12 || res.RSquared > 1+1e-12 {
				t.Errorf("%+v: R² = %v out of bounds", p, res.RSquared)
			}
			// mean of fitted values equals mean of response
			if math.Abs(fit.MeanFitted-fit.MeanResponse) > 1e-9*math.Max(1, math.Abs(fit.MeanResponse)) {
				t.Errorf("%+v: mean(ŷ) = %v, ȳ = %v", p, fit.MeanFitted, fit.MeanResponse)
			}
			// RMSE² n = SSE and MAE <= RMSE
			if !relClose(fit.RMSE*fit.RMSE*n, fit.SSE, 1e-9) {
				t.Errorf("%+v: RMSE² n = %v, SSE = %v", p, fit.RMSE*fit.RMSE*n, fit.SSE)
			}
			if fit.MAE > fit.RMSE*(1+1e-12) {
				t.Errorf("%+v: MAE = %v exceeds RMSE = %v", p, fit.MAE, fit.RMSE)
			}
			// R² computed from the decomposition either way
			if !relClose(res.RSquared, fit.SSR/fit.SST, 1e-6) {
				t.Errorf("%+v: 1 - SSE/SST = %v, SSR/SST = %v", p, res.RSquared, fit.SSR/fit.SST)
			}
		}
	}
}

func TestGenerateFlatSlopeMeanR2(t *testing.T) {
	tests := []struct {
		n       int
		maxMean float64
	}{
		{n: 50, maxMean: 0.05},
		{n: 500, maxMean: 0.01},
	}
	for _, tt := range tests {
		const trials = 200
		var sum float64
		for seed := uint64(0); seed < trials; seed++ {
			res, err := Generate(Params{Intercept: 3, Slope: 0, ErrorStdDev: 10, SampleSize: tt.n, Seed: seed})
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			sum += res.RSquared
		}
		if mean := sum / trials; mean > tt.maxMean {
			t.Errorf("n = %d: mean R² = %v, want below %v", tt.n, mean, tt.maxMean)
		}
	}
}

func TestGenerateConfidenceIntervalCoverage(t *testing.T) {
	p := Params{Intercept: 1, Slope: 0.5, ErrorStdDev: 3, SampleSize: 50}
	const (
		trials = 1000
		x0     = 4.0
	)
	truth := p.MeanResponse(x0)

	covered := 0
	for seed := uint64(0); seed < trials; seed++ {
		res, err := Generate(p.WithSeed(seed))
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if res.MeanResponseInterval(x0).Contains(truth) {
			covered++
		}
	}
	coverage := float64(covered) / trials
	if coverage < 0.92 || coverage > 0.98 {
		t.Errorf("coverage = %v, want about 0.95", coverage)
	}
}

func TestGenerateMinimumUISampleSize(t *testing.T) {
	res, err := Generate(Params{Intercept: 0, Slope: 0, ErrorStdDev: 10, SampleSize: 10, Seed: 0})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.DegreesOfFreedom != 8 {
		t.Errorf("df = %d, want 8", res.DegreesOfFreedom)
	}
	if !(res.ResidualStdError > 0) || math.IsInf(res.ResidualStdError, 0) {
		t.Errorf("ŝ = %v", res.ResidualStdError)
	}
	for i, iv := range res.Intervals {
		if !(iv.Upper > iv.Lower) {
			t.Errorf("interval %d is degenerate: %+v", i, iv)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		target error
	}{
		{"n below three", Params{ErrorStdDev: 1, SampleSize: 2}, errors.ErrInvalidSampleSize},
		{"zero samples", Params{ErrorStdDev: 1, SampleSize: 0}, errors.ErrInvalidSampleSize},
		{"negative samples", Params{ErrorStdDev: 1, SampleSize: -5}, errors.ErrInvalidSampleSize},
		{"zero sigma", Params{ErrorStdDev: 0, SampleSize: 10}, errors.ErrInvalidVariance},
		{"negative sigma", Params{ErrorStdDev: -1, SampleSize: 10}, errors.ErrInvalidVariance},
		{"NaN sigma", Params{ErrorStdDev: math.NaN(), SampleSize: 10}, errors.ErrInvalidVariance},
		{"infinite sigma", Params{ErrorStdDev: math.Inf(1), SampleSize: 10}, errors.ErrInvalidVariance},
		{"sample size checked first", Params{ErrorStdDev: 0, SampleSize: 1}, errors.ErrInvalidSampleSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Generate(tt.params)
			if res != nil {
				t.Error("expected nil result")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("got %v, want %v", err, tt.target)
			}
		})
	}

	t.Run("non-finite intercept", func(t *testing.T) {
		_, err := Generate(Params{Intercept: math.NaN(), ErrorStdDev: 1, SampleSize: 10})
		var verr *errors.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestGenerateSingularDesign(t *testing.T) {
	src := &scriptedSource{x: func(int) float64 { return 3.3 }, noise: 0.5}
	_, err := GenerateFrom(Params{Intercept: 1, Slope: 1, ErrorStdDev: 1, SampleSize: 20}, src)
	if !errors.Is(err, errors.ErrComputation) {
		t.Fatalf("expected ErrComputation, got %v", err)
	}
	var cerr *errors.ComputationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ComputationError, got %T", err)
	}
}

func TestGenerateZeroVariation(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	src := &scriptedSource{x: func(i int) float64 { return float64(i) - 5 }}
	res, err := GenerateFrom(Params{Intercept: 2.5, Slope: 0, ErrorStdDev: 1, SampleSize: 12}, src)
	if err != nil {
		t.Fatalf("GenerateFrom failed: %v", err)
	}
	if res.RSquared != 0 {
		t.Errorf("R² = %v, want exactly 0", res.RSquared)
	}
	if len(warnings) == 0 {
		t.Error("expected an undefined metric warning")
	}
}

func BenchmarkGenerate(b *testing.B) {
	for _, n := range []int{10, 500, 1000} {
		p := Params{Intercept: 0, Slope: 1, ErrorStdDev: 10, SampleSize: n}
		b.Run("n="+strconv.Itoa(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Generate(p.WithSeed(uint64(i))); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
