package simulation

import (
	"math"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

const (
	// Regressors は計画行列の列数 K（切片と傾き）
	Regressors = 2

	// MinSampleSize は自由度 n-K を正にする最小のサンプルサイズ
	MinSampleSize = Regressors + 1

	// 説明変数は [XMin, XMax] の一様分布から抽出する
	XMin = -10.0
	XMax = 10.0

	// DefaultConfidenceLevel は当てはめ値の信頼区間の水準
	DefaultConfidenceLevel = 0.95
)

// Params は母集団モデル y = β₀ + β₁x + ε, ε ~ N(0, σ²) と抽出条件
type Params struct {
	Intercept   float64 `json:"intercept"`    // β₀
	Slope       float64 `json:"slope"`        // β₁
	ErrorStdDev float64 `json:"error_stddev"` // σ
	SampleSize  int     `json:"sample_size"`  // n
	Seed        uint64  `json:"seed"`
}

// Validate は事前条件を検査する
//
// サンプルサイズ、誤差の標準偏差、母数の有限性の順に検査し、最初の違反を返す。
func (p Params) Validate() error {
	if p.SampleSize < MinSampleSize {
		return errors.NewInvalidSampleSizeError(p.SampleSize, MinSampleSize)
	}
	if !(p.ErrorStdDev > 0) || math.IsInf(p.ErrorStdDev, 1) {
		return errors.NewInvalidVarianceError(p.ErrorStdDev)
	}
	if !errors.IsFinite(p.Intercept) {
		return errors.NewValidationError("intercept", "must be finite", p.Intercept)
	}
	if !errors.IsFinite(p.Slope) {
		return errors.NewValidationError("slope", "must be finite", p.Slope)
	}
	return nil
}

// WithSeed は乱数シードだけを差し替えたコピーを返す
func (p Params) WithSeed(seed uint64) Params {
	p.Seed = seed
	return p
}

// MeanResponse は母集団の平均応答 β₀ + β₁x を返す
func (p Params) MeanResponse(x float64) float64 {
	return p.Intercept + p.Slope*x
}
