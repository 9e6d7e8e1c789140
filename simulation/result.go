package simulation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Interval は閉区間 [Lower, Upper]
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains は v が区間に含まれるかを返す
func (iv Interval) Contains(v float64) bool {
	return iv.Lower <= v && v <= iv.Upper
}

// FitStats は当てはまりとモデル選択の指標
type FitStats struct {
	SST           float64 `json:"sst"`
	SSR           float64 `json:"ssr"`
	SSE           float64 `json:"sse"`
	AdjustedR2    float64 `json:"adjusted_r2"`
	LogLikelihood float64 `json:"log_likelihood"`
	AIC           float64 `json:"aic"`
	BIC           float64 `json:"bic"`
	FStatistic    float64 `json:"f_statistic"`
	FPValue       float64 `json:"f_pvalue"`
	RMSE          float64 `json:"rmse"` // √(SSE/n)
	MAE           float64 `json:"mae"`
	MeanResponse  float64 `json:"mean_response"` // ȳ
	MeanFitted    float64 `json:"mean_fitted"`   // 当てはめ値の平均。定数項があれば ȳ と一致する
}

// Result は1回の抽出と推定の結果
//
// Generate ごとに新しく作られ、他の Result とスライスを共有しない。
type Result struct {
	Params Params `json:"params"`

	Design    *mat.Dense `json:"-"` // n×2、各行 (1, xᵢ)
	X         []float64  `json:"x"`
	Y         []float64  `json:"y"`
	Fitted    []float64  `json:"fitted"`
	Residuals []float64  `json:"residuals"`

	Coefficients [Regressors]float64 `json:"coefficients"` // (b₀, b₁)
	StdErrors    [Regressors]float64 `json:"std_errors"`
	TValues      [Regressors]float64 `json:"t_values"`
	PValues      [Regressors]float64 `json:"p_values"`

	// Covariance は ŝ²(X'X)⁻¹
	Covariance [Regressors][Regressors]float64 `json:"covariance"`

	Intervals       []Interval `json:"intervals"` // 当てはめ値ごとの信頼区間
	ConfidenceLevel float64    `json:"confidence_level"`
	CriticalValue   float64    `json:"critical_value"`

	ResidualStdError float64  `json:"residual_std_error"` // ŝ
	RSquared         float64  `json:"r_squared"`
	DegreesOfFreedom int      `json:"degrees_of_freedom"`
	Fit              FitStats `json:"fit"`
}

// N はサンプルサイズを返す
func (r *Result) N() int {
	return len(r.Y)
}

// FittedAt は x における当てはめ値 b₀ + b₁x を返す
func (r *Result) FittedAt(x float64) float64 {
	return r.Coefficients[0] + r.Coefficients[1]*x
}

// MeanResponseInterval は任意の x における平均応答の信頼区間を返す
func (r *Result) MeanResponseInterval(x float64) Interval {
	c := r.Covariance
	v := c[0][0] + 2*x*c[0][1] + x*x*c[1][1]
	half := r.CriticalValue * math.Sqrt(math.Max(v, 0))
	yhat := r.FittedAt(x)
	return Interval{Lower: yhat - half, Upper: yhat + half}
}
