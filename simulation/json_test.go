package simulation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

func TestFitStatsJSONNonFinite(t *testing.T) {
	fit := FitStats{
		SST:           4,
		SSR:           4,
		LogLikelihood: math.Inf(1),
		AIC:           math.Inf(-1),
		BIC:           math.Inf(-1),
		FStatistic:    math.Inf(1),
		AdjustedR2:    1,
	}
	data, err := json.Marshal(fit)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"log_likelihood", "aic", "bic", "f_statistic"} {
		v, ok := got[key]
		if !ok {
			t.Errorf("%s missing from %s", key, data)
			continue
		}
		if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
	if got["sst"] != 4.0 || got["adjusted_r2"] != 1.0 {
		t.Errorf("finite fields changed: %s", data)
	}
}

func TestFitStatsJSONFinite(t *testing.T) {
	res, err := Generate(Params{Intercept: 1, Slope: 2, ErrorStdDev: 3, SampleSize: 50, Seed: 4})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	data, err := json.Marshal(res.Fit)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]float64
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got["f_statistic"] != res.Fit.FStatistic || got["aic"] != res.Fit.AIC {
		t.Errorf("round trip lost values: %s", data)
	}
}

func TestResultJSONExactFit(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(func(error) {})

	// y は恒等的に 0 なので残差も標準誤差も 0 になる
	src := &scriptedSource{x: func(i int) float64 { return float64(i) - 5 }}
	res, err := GenerateFrom(Params{ErrorStdDev: 1, SampleSize: 12}, src)
	if err != nil {
		t.Fatalf("GenerateFrom failed: %v", err)
	}
	if res.Fit.SSE != 0 || !math.IsInf(res.Fit.FStatistic, 1) {
		t.Fatalf("expected an exact fit, got SSE = %v, F = %v", res.Fit.SSE, res.Fit.FStatistic)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got struct {
		TValues [Regressors]*float64 `json:"t_values"`
		PValues [Regressors]*float64 `json:"p_values"`
		Fit     struct {
			FStatistic *float64 `json:"f_statistic"`
			SSE        float64  `json:"sse"`
		} `json:"fit"`
		Y []float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for i := 0; i < Regressors; i++ {
		if got.TValues[i] != nil || got.PValues[i] != nil {
			t.Errorf("t/p value %d should be null: %s", i, data)
		}
	}
	if got.Fit.FStatistic != nil {
		t.Errorf("F statistic should be null")
	}
	if len(got.Y) != 12 {
		t.Errorf("y has %d values, want 12", len(got.Y))
	}
}
