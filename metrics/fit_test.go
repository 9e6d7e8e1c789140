package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestComputeSumOfSquares(t *testing.T) {
	// least squares fit of y on x = 1..5 so that SST = SSR + SSE holds
	y := mat.NewVecDense(5, []float64{2.1, 3.9, 6.2, 7.8, 10.0})
	yHat := mat.NewVecDense(5, []float64{2.06, 4.03, 6.0, 7.97, 9.94})

	ss, err := ComputeSumOfSquares(y, yHat)
	if err != nil {
		t.Fatalf("ComputeSumOfSquares failed: %v", err)
	}
	if ss.N != 5 {
		t.Errorf("N = %d, want 5", ss.N)
	}
	if math.Abs(ss.SST-38.9) > 1e-9 {
		t.Errorf("SST = %v, want 38.9", ss.SST)
	}
	if math.Abs(ss.SST-(ss.SSR+ss.SSE)) > 1e-6*ss.SST {
		t.Errorf("SST %v != SSR %v + SSE %v", ss.SST, ss.SSR, ss.SSE)
	}
	if r2 := ss.R2(); r2 < 0.99 || r2 > 1 {
		t.Errorf("R2 = %v, want close to 1", r2)
	}
}

func TestSumOfSquaresZeroVariation(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	y := make([]float64, 500)
	for i := range y {
		y[i] = 0.1
	}
	yv := mat.NewVecDense(len(y), y)

	ss, err := ComputeSumOfSquares(yv, yv)
	if err != nil {
		t.Fatalf("ComputeSumOfSquares failed: %v", err)
	}
	if !ss.ZeroVariation() {
		t.Fatalf("constant response must have zero variation, SST = %v", ss.SST)
	}
	if r2 := ss.R2(); r2 != 0 {
		t.Errorf("R2 = %v, want 0", r2)
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %d", len(warned))
	}
	var w *errors.UndefinedMetricWarning
	if !errors.As(warned[0], &w) || w.Metric != "r2" {
		t.Errorf("unexpected warning: %v", warned[0])
	}
}

func TestAdjustedR2(t *testing.T) {
	got, err := AdjustedR2(0.8, 100, 2)
	if err != nil {
		t.Fatalf("AdjustedR2 failed: %v", err)
	}
	want := 1 - 0.2*99.0/98.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("AdjustedR2 = %v, want %v", got, want)
	}

	if _, err := AdjustedR2(0.5, 2, 2); !errors.Is(err, errors.ErrInvalidSampleSize) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}
}

func TestInformationCriteria(t *testing.T) {
	sse, n, k := 50.0, 100, 2
	llf := LogLikelihood(sse, n)
	want := -50 * (math.Log(2*math.Pi) + math.Log(0.5) + 1)
	if math.Abs(llf-want) > 1e-10 {
		t.Errorf("LogLikelihood = %v, want %v", llf, want)
	}
	if got := AIC(sse, n, k); math.Abs(got-(-2*want+4)) > 1e-10 {
		t.Errorf("AIC = %v", got)
	}
	if got := BIC(sse, n, k); math.Abs(got-(-2*want+2*math.Log(100))) > 1e-10 {
		t.Errorf("BIC = %v", got)
	}
	// BIC penalises the second parameter more heavily than AIC once n > e²
	if BIC(sse, n, k) <= AIC(sse, n, k) {
		t.Error("BIC should exceed AIC for n = 100")
	}
}

func TestFStatistic(t *testing.T) {
	ss := SumOfSquares{SST: 150, SSR: 100, SSE: 50, N: 52}
	ft, err := FStatistic(ss, 2)
	if err != nil {
		t.Fatalf("FStatistic failed: %v", err)
	}
	if math.Abs(ft.Statistic-100) > 1e-10 {
		t.Errorf("F = %v, want 100", ft.Statistic)
	}
	if ft.DF1 != 1 || ft.DF2 != 50 {
		t.Errorf("df = (%v, %v), want (1, 50)", ft.DF1, ft.DF2)
	}
	if ft.PValue <= 0 || ft.PValue > 1e-10 {
		t.Errorf("p-value = %v, expected tiny positive", ft.PValue)
	}

	weak := SumOfSquares{SST: 100.1, SSR: 0.1, SSE: 100, N: 52}
	ft, err = FStatistic(weak, 2)
	if err != nil {
		t.Fatalf("FStatistic failed: %v", err)
	}
	if ft.PValue < 0.5 {
		t.Errorf("p-value = %v, expected large for a flat fit", ft.PValue)
	}

	perfect := SumOfSquares{SST: 10, SSR: 10, SSE: 0, N: 5}
	ft, err = FStatistic(perfect, 2)
	if err != nil || !math.IsInf(ft.Statistic, 1) || ft.PValue != 0 {
		t.Errorf("perfect fit: got %+v, err %v", ft, err)
	}

	if _, err := FStatistic(ss, 1); err == nil {
		t.Error("expected an error without a slope")
	}
	if _, err := FStatistic(SumOfSquares{N: 2}, 2); !errors.Is(err, errors.ErrInvalidSampleSize) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}
}
