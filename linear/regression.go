package linear

import (
	"math"

	"github.com/YuminosukeSato/olsfit/core/model"
	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultConfidenceLevel = 0.95
	// 条件数がこの値を超える計画行列は（ほぼ）特異とみなす
	defaultConditionLimit = 1e12
)

// OLS は通常最小二乗法による線形回帰モデル
//
// 切片は自動で追加しない。呼び出し側が定数列を含む計画行列を渡す。
// 係数の共分散 ŝ²(X'X)⁻¹ を保持し、標準誤差と平均応答の信頼区間を計算できる。
type OLS struct {
	state *model.StateManager

	confidenceLevel float64
	conditionLimit  float64

	coef    []float64
	cov     *mat.SymDense // ŝ²(X'X)⁻¹
	sse     float64
	dfResid int
	cond    float64
}

var _ model.InferenceModel = (*OLS)(nil)

// NewOLS は新しいOLSモデルを作成する
func NewOLS(opts ...Option) *OLS {
	o := &OLS{
		state:           model.NewStateManager(),
		confidenceLevel: defaultConfidenceLevel,
		conditionLimit:  defaultConditionLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fit はモデルを学習させる
//
// QR分解で最小二乗解 b を求め、(X'X)⁻¹ はCholesky分解から得る。
// 計画行列が（ほぼ）特異な場合はComputationErrorを返す。
func (o *OLS) Fit(X mat.Matrix, y mat.Vector) (err error) {
	defer errors.Recover(&err, "OLS.Fit")

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "OLS.Fit")
	}
	if y.Len() != r {
		return errors.NewDimensionError("OLS.Fit", r, y.Len(), 0)
	}
	// 自由度 n-K が正でなければならない
	if r <= c {
		return errors.NewInvalidSampleSizeError(r, c+1)
	}
	if o.confidenceLevel <= 0 || o.confidenceLevel >= 1 {
		return errors.NewValidationError("confidence_level", "must be in (0, 1)", o.confidenceLevel)
	}

	o.state.Reset()

	var qr mat.QR
	qr.Factorize(X)
	cond := qr.Cond()
	if math.IsNaN(cond) || cond > o.conditionLimit {
		return errors.NewComputationError("OLS.Fit", "design matrix is near-singular", cond, errors.ErrSingularMatrix)
	}

	coefficients := mat.NewDense(c, 1, nil)
	if err := qr.SolveTo(coefficients, false, y); err != nil {
		return errors.NewComputationError("OLS.Fit", "least squares solve failed", cond, err)
	}
	b := mat.NewVecDense(c, mat.Col(nil, 0, coefficients))

	// 残差 e = y - Xb
	var fitted, resid mat.VecDense
	fitted.MulVec(X, b)
	resid.SubVec(y, &fitted)
	sse := mat.Dot(&resid, &resid)

	// X'X のCholesky分解から (X'X)⁻¹ を得る
	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return errors.NewComputationError("OLS.Fit", "X'X is not positive definite", cond, errors.ErrSingularMatrix)
	}
	xtxInv := mat.NewSymDense(c, nil)
	if err := chol.InverseTo(xtxInv); err != nil {
		return errors.NewComputationError("OLS.Fit", "X'X inversion failed", cond, err)
	}

	df := r - c
	cov := mat.NewSymDense(c, nil)
	cov.ScaleSym(sse/float64(df), xtxInv)

	coef := mat.Col(nil, 0, coefficients)
	if err := errors.CheckNumericalStability("OLS.Fit", append(append([]float64(nil), coef...), sse)); err != nil {
		return err
	}

	o.coef = coef
	o.cov = cov
	o.sse = sse
	o.dfResid = df
	o.cond = cond
	o.state.SetFitted(r, c)

	return nil
}

// Predict は入力データに対する点予測 Xb を返す
func (o *OLS) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := o.state.RequireFitted("OLS", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != len(o.coef) {
		return nil, errors.NewDimensionError("OLS.Predict", len(o.coef), c, 1)
	}

	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, mat.NewVecDense(c, o.coef))
	return pred, nil
}

// PredictMean は平均応答の推定値、標準誤差、信頼区間を返す
//
// se(ŷᵢ) = √(xᵢ' Cov(b) xᵢ)、区間は ŷᵢ ± t(1-α/2, n-K)·se(ŷᵢ)。
func (o *OLS) PredictMean(X mat.Matrix) (*model.Prediction, error) {
	pred, err := o.Predict(X)
	if err != nil {
		return nil, err
	}

	r, c := X.Dims()
	tcrit := o.CriticalValue()

	out := &model.Prediction{
		Mean:  make([]float64, r),
		SE:    make([]float64, r),
		Lower: make([]float64, r),
		Upper: make([]float64, r),
		Level: o.confidenceLevel,
	}
	row := mat.NewVecDense(c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row.SetVec(j, X.At(i, j))
		}
		yhat := pred.AtVec(i)
		se := math.Sqrt(mat.Inner(row, o.cov, row))

		out.Mean[i] = yhat
		out.SE[i] = se
		out.Lower[i] = yhat - tcrit*se
		out.Upper[i] = yhat + tcrit*se
	}
	return out, nil
}

// CriticalValue は両側信頼区間のt分布臨界値 t(1-α/2, n-K) を返す
func (o *OLS) CriticalValue() float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(o.dfResid)}
	return t.Quantile(1 - (1-o.confidenceLevel)/2)
}

// Coefficients は推定係数 b のコピーを返す
func (o *OLS) Coefficients() []float64 {
	if !o.state.IsFitted() {
		return nil
	}
	return append([]float64(nil), o.coef...)
}

// StdErrors は係数の標準誤差 √diag(Cov(b)) を返す
func (o *OLS) StdErrors() []float64 {
	if !o.state.IsFitted() {
		return nil
	}
	se := make([]float64, len(o.coef))
	for i := range se {
		se[i] = math.Sqrt(o.cov.At(i, i))
	}
	return se
}

// Covariance は係数の推定共分散行列のコピーを返す
func (o *OLS) Covariance() *mat.SymDense {
	if !o.state.IsFitted() {
		return nil
	}
	return mat.NewSymDense(len(o.coef), append([]float64(nil), o.cov.RawSymmetric().Data...))
}

// TValues は係数ごとのt統計量 b/se(b) を返す
func (o *OLS) TValues() []float64 {
	se := o.StdErrors()
	if se == nil {
		return nil
	}
	tv := make([]float64, len(se))
	for i := range tv {
		tv[i] = o.coef[i] / se[i]
	}
	return tv
}

// PValues はt統計量の両側p値を返す
func (o *OLS) PValues() []float64 {
	tv := o.TValues()
	if tv == nil {
		return nil
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(o.dfResid)}
	pv := make([]float64, len(tv))
	for i, t := range tv {
		pv[i] = 2 * dist.Survival(math.Abs(t))
	}
	return pv
}

// ResidualStdError は回帰の標準誤差 ŝ = √(SSE/(n-K)) を返す
func (o *OLS) ResidualStdError() float64 {
	if !o.state.IsFitted() {
		return 0
	}
	return math.Sqrt(o.sse / float64(o.dfResid))
}

// DegreesOfFreedom は残差の自由度 n-K を返す
func (o *OLS) DegreesOfFreedom() int {
	return o.dfResid
}

// ConditionNumber は学習時の計画行列の条件数を返す
func (o *OLS) ConditionNumber() float64 {
	return o.cond
}

// ConfidenceLevel は信頼区間の水準を返す
func (o *OLS) ConfidenceLevel() float64 {
	return o.confidenceLevel
}

// IsFitted はモデルが学習済みかどうかを返す
func (o *OLS) IsFitted() bool {
	return o.state.IsFitted()
}
