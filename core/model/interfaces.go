package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit は計画行列Xと応答yでモデルを学習させる
	Fit(X mat.Matrix, y mat.Vector) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は計画行列の各行に対する点予測を返す
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Prediction は平均応答の推定値と信頼区間
type Prediction struct {
	Mean  []float64 // 点推定 ŷ
	SE    []float64 // 平均応答の標準誤差
	Lower []float64 // 信頼区間の下限
	Upper []float64 // 信頼区間の上限
	Level float64   // 信頼水準（例: 0.95）
}

// InferenceModel は係数の標準誤差と平均応答の信頼区間を提供するモデル
type InferenceModel interface {
	Fitter
	Predictor

	// Coefficients は推定係数を返す
	Coefficients() []float64
	// StdErrors は係数の標準誤差を返す
	StdErrors() []float64
	// PredictMean は平均応答の推定値と信頼区間を返す
	PredictMean(X mat.Matrix) (*Prediction, error)
}
