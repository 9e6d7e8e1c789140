package metrics

import (
	"math"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SumOfSquares は平方和分解 SST = SSR + SSE を保持する
type SumOfSquares struct {
	SST float64 // 全変動 Σ(y - ȳ)²
	SSR float64 // 回帰変動 Σ(ŷ - ȳ)²
	SSE float64 // 残差平方和 Σ(y - ŷ)²
	N   int
}

// ComputeSumOfSquares は観測値と当てはめ値から平方和を計算する
func ComputeSumOfSquares(y, yHat mat.Vector) (SumOfSquares, error) {
	n, err := checkPair("SumOfSquares", y, yHat)
	if err != nil {
		return SumOfSquares{}, err
	}

	ys := make([]float64, n)
	for i := range ys {
		ys[i] = y.AtVec(i)
	}
	mean := stat.Mean(ys, nil)

	ss := SumOfSquares{N: n}
	for i := 0; i < n; i++ {
		d := ys[i] - mean
		f := yHat.AtVec(i) - mean
		r := ys[i] - yHat.AtVec(i)
		ss.SST += d * d
		ss.SSR += f * f
		ss.SSE += r * r
	}
	return ss, nil
}

// ZeroVariation は応答に実質的な変動がないかを返す
func (s SumOfSquares) ZeroVariation() bool {
	if s.SST == 0 {
		return true
	}
	// 定数応答でも平均の丸め誤差で SST がごく小さな正値になる
	return s.SST <= zeroVariationTolerance*(s.SSE+s.SSR+1)
}

// R2 は決定係数 1 - SSE/SST を返す。変動がない場合は 0
func (s SumOfSquares) R2() float64 {
	if s.ZeroVariation() {
		errors.Warn(errors.NewUndefinedMetricWarning("r2", "zero total variation in y", 0))
		return 0
	}
	return 1 - s.SSE/s.SST
}

// AdjustedR2 は自由度調整済み決定係数 1 - (1-R²)(n-1)/(n-k) を返す
//
// k は定数項を含む回帰係数の数。
func AdjustedR2(r2 float64, n, k int) (float64, error) {
	if n-k <= 0 {
		return 0, errors.NewInvalidSampleSizeError(n, k+1)
	}
	return 1 - (1-r2)*float64(n-1)/float64(n-k), nil
}

// LogLikelihood は正規誤差を仮定した最大対数尤度を返す
//
// llf = -n/2 (log 2π + log(SSE/n) + 1)
func LogLikelihood(sse float64, n int) float64 {
	nf := float64(n)
	return -nf / 2 * (math.Log(2*math.Pi) + math.Log(sse/nf) + 1)
}

// AIC は赤池情報量規準 -2 llf + 2k を返す
func AIC(sse float64, n, k int) float64 {
	return -2*LogLikelihood(sse, n) + 2*float64(k)
}

// BIC はベイズ情報量規準 -2 llf + k log n を返す
func BIC(sse float64, n, k int) float64 {
	return -2*LogLikelihood(sse, n) + float64(k)*math.Log(float64(n))
}

// FTest は回帰全体の有意性検定の結果
type FTest struct {
	Statistic float64
	DF1       float64
	DF2       float64
	PValue    float64
}

// FStatistic は全係数が 0 という帰無仮説に対するF検定を行う
//
// F = (SSR/(k-1)) / (SSE/(n-k))。SSE が 0 の場合は +Inf、p値 0。
func FStatistic(ss SumOfSquares, k int) (FTest, error) {
	if k < 2 {
		return FTest{}, errors.NewValidationError("regressors", "need at least one slope besides the intercept", k)
	}
	if ss.N-k <= 0 {
		return FTest{}, errors.NewInvalidSampleSizeError(ss.N, k+1)
	}

	df1 := float64(k - 1)
	df2 := float64(ss.N - k)
	if ss.SSE == 0 {
		return FTest{Statistic: math.Inf(1), DF1: df1, DF2: df2, PValue: 0}, nil
	}

	f := (ss.SSR / df1) / (ss.SSE / df2)
	dist := distuv.F{D1: df1, D2: df2}
	return FTest{
		Statistic: f,
		DF1:       df1,
		DF2:       df2,
		PValue:    dist.Survival(f),
	}, nil
}
