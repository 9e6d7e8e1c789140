// Package metrics は回帰の当てはまりを評価する指標を提供する
package metrics

import (
	"math"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// 全変動がこの相対値以下なら応答に変動がないとみなす
const zeroVariationTolerance = 1e-24

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score は決定係数 R² = 1 - SSE/SST を計算する
//
// 応答に変動がない（SST が 0）場合は 0 を返し、UndefinedMetricWarning を発行する。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	ss, err := ComputeSumOfSquares(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ss.R2(), nil
}

func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}
