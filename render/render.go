// Package render は simulation.Result を表示用のデータに変換する
//
// エンジンは生の数値だけを返し、並べ替えや小数点以下2桁の整形はここで行う。
package render

import (
	"sort"
	"strconv"

	"github.com/YuminosukeSato/olsfit/simulation"
)

// Point は散布図または回帰直線上の1点
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BandPoint は信頼帯の1断面
type BandPoint struct {
	X     float64 `json:"x"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Scatter は抽出順の (x, y) を返す
func Scatter(res *simulation.Result) []Point {
	pts := make([]Point, res.N())
	for i := range pts {
		pts[i] = Point{X: res.X[i], Y: res.Y[i]}
	}
	return pts
}

// sortedIndex は x の昇順に並べた添字を返す。同じ x は抽出順を保つ
func sortedIndex(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	return idx
}

// FittedLine は x の昇順に並べた (x, ŷ) を返す
func FittedLine(res *simulation.Result) []Point {
	idx := sortedIndex(res.X)
	pts := make([]Point, len(idx))
	for k, i := range idx {
		pts[k] = Point{X: res.X[i], Y: res.Fitted[i]}
	}
	return pts
}

// Band は x の昇順に並べた信頼帯を返す
func Band(res *simulation.Result) []BandPoint {
	idx := sortedIndex(res.X)
	band := make([]BandPoint, len(idx))
	for k, i := range idx {
		iv := res.Intervals[i]
		band[k] = BandPoint{X: res.X[i], Lower: iv.Lower, Upper: iv.Upper}
	}
	return band
}

// Fixed2 は小数点以下2桁の文字列にする
func Fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// 係数表の見出し
const (
	ColumnPopulation = "Population Parameters"
	ColumnEstimate   = "Sample Estimates"
	ColumnStdError   = "Standard Errors"

	RowIntercept = "Intercept"
	RowSlope     = "Slope"
)

// CoefficientRow は係数表の1行
type CoefficientRow struct {
	Name       string `json:"name"`
	Population string `json:"population"`
	Estimate   string `json:"estimate"`
	StdError   string `json:"std_error"`
}

// CoefficientTable は母数、推定値、標準誤差を並べた表
type CoefficientTable struct {
	Columns []string         `json:"columns"`
	Rows    []CoefficientRow `json:"rows"`
}

// Coefficients は係数表を作る
func Coefficients(res *simulation.Result) CoefficientTable {
	p := res.Params
	return CoefficientTable{
		Columns: []string{ColumnPopulation, ColumnEstimate, ColumnStdError},
		Rows: []CoefficientRow{
			{
				Name:       RowIntercept,
				Population: Fixed2(p.Intercept),
				Estimate:   Fixed2(res.Coefficients[0]),
				StdError:   Fixed2(res.StdErrors[0]),
			},
			{
				Name:       RowSlope,
				Population: Fixed2(p.Slope),
				Estimate:   Fixed2(res.Coefficients[1]),
				StdError:   Fixed2(res.StdErrors[1]),
			},
		},
	}
}

// Display は画面に出すスカラー値
type Display struct {
	N                int    `json:"n"`
	RSquared         string `json:"r_squared"`
	ResidualStdError string `json:"residual_std_error"`
	AdjustedR2       string `json:"adjusted_r_squared"`
	AIC              string `json:"aic"`
	BIC              string `json:"bic"`
	FStatistic       string `json:"f_statistic"`
	Seed             uint64 `json:"seed"`
}

// Scalars は表示用のスカラー値を作る
func Scalars(res *simulation.Result) Display {
	return Display{
		N:                res.N(),
		RSquared:         Fixed2(res.RSquared),
		ResidualStdError: Fixed2(res.ResidualStdError),
		AdjustedR2:       Fixed2(res.Fit.AdjustedR2),
		AIC:              Fixed2(res.Fit.AIC),
		BIC:              Fixed2(res.Fit.BIC),
		FStatistic:       Fixed2(res.Fit.FStatistic),
		Seed:             res.Params.Seed,
	}
}

// View は1回の結果を描画するのに必要なものをまとめる
type View struct {
	Scatter      []Point          `json:"scatter"`
	FittedLine   []Point          `json:"fitted_line"`
	Band         []BandPoint      `json:"band"`
	Coefficients CoefficientTable `json:"coefficients"`
	Display      Display          `json:"display"`
}

// NewView は結果から View を作る
func NewView(res *simulation.Result) *View {
	return &View{
		Scatter:      Scatter(res),
		FittedLine:   FittedLine(res),
		Band:         Band(res),
		Coefficients: Coefficients(res),
		Display:      Scalars(res),
	}
}
