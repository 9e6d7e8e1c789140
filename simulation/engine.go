// Package simulation は既知の線形母集団から標本を抽出し、OLSで推定する
//
// Generate は入力だけで決まる純粋関数であり、同じ Params（シードを含む）に対しては
// ビット単位で同一の Result を返す。独立したリクエストから並行に呼び出してよい。
package simulation

import (
	"time"

	"github.com/YuminosukeSato/olsfit/linear"
	"github.com/YuminosukeSato/olsfit/metrics"
	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/pkg/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Generate は params.Seed で初期化したPCG乱数源を使って標本を抽出し推定する
func Generate(params Params) (*Result, error) {
	return GenerateFrom(params, NewSource(params.Seed))
}

// GenerateFrom は与えられた乱数源から標本を抽出し推定する
//
// params.Seed は結果に記録されるだけで、乱数源の初期化には使わない。
func GenerateFrom(params Params, src Source) (res *Result, err error) {
	defer errors.Recover(&err, "simulation.Generate")

	logger := log.GetLoggerWithName("simulation").With(
		log.OperationKey, log.OperationGenerate,
		log.RandomSeedKey, params.Seed,
	)

	if err := params.Validate(); err != nil {
		logger.Debug("invalid parameters", "error", err)
		return nil, err
	}

	start := time.Now()
	n := params.SampleSize

	// 説明変数、誤差の順に抽出する
	x := make([]float64, n)
	for i := range x {
		x[i] = src.Uniform(XMin, XMax)
	}
	eps := make([]float64, n)
	for i := range eps {
		eps[i] = src.Normal(0, params.ErrorStdDev)
	}

	design := mat.NewDense(n, Regressors, nil)
	for i, xi := range x {
		design.Set(i, 0, 1)
		design.Set(i, 1, xi)
	}

	// y = Xβ + ε
	beta := mat.NewVecDense(Regressors, []float64{params.Intercept, params.Slope})
	y := mat.NewVecDense(n, nil)
	y.MulVec(design, beta)
	y.AddVec(y, mat.NewVecDense(n, eps))

	ols := linear.NewOLS(linear.WithConfidenceLevel(DefaultConfidenceLevel))
	if err := ols.Fit(design, y); err != nil {
		logger.Warn("least squares fit failed", "error", err)
		return nil, err
	}

	pred, err := ols.PredictMean(design)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Params:           params,
		Design:           design,
		X:                x,
		Y:                mat.Col(nil, 0, y),
		Fitted:           pred.Mean,
		Residuals:        make([]float64, n),
		Intervals:        make([]Interval, n),
		ConfidenceLevel:  ols.ConfidenceLevel(),
		CriticalValue:    ols.CriticalValue(),
		ResidualStdError: ols.ResidualStdError(),
		DegreesOfFreedom: ols.DegreesOfFreedom(),
	}
	for i := 0; i < n; i++ {
		res.Residuals[i] = res.Y[i] - res.Fitted[i]
		res.Intervals[i] = Interval{Lower: pred.Lower[i], Upper: pred.Upper[i]}
	}
	copy(res.Coefficients[:], ols.Coefficients())
	copy(res.StdErrors[:], ols.StdErrors())
	copy(res.TValues[:], ols.TValues())
	copy(res.PValues[:], ols.PValues())
	cov := ols.Covariance()
	for i := 0; i < Regressors; i++ {
		for j := 0; j < Regressors; j++ {
			res.Covariance[i][j] = cov.At(i, j)
		}
	}

	if err := res.computeFitStats(); err != nil {
		return nil, err
	}

	logger.Debug("sample generated",
		log.SamplesKey, n,
		log.R2ScoreKey, res.RSquared,
		log.ResidualStdErrorKey, res.ResidualStdError,
		log.ConditionNumberKey, ols.ConditionNumber(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (r *Result) computeFitStats() error {
	n := r.N()
	y, fitted := mat.NewVecDense(n, r.Y), mat.NewVecDense(n, r.Fitted)
	ss, err := metrics.ComputeSumOfSquares(y, fitted)
	if err != nil {
		return err
	}
	r.RSquared, err = metrics.R2Score(y, fitted)
	if err != nil {
		return err
	}
	if err := errors.CheckScalar("simulation.Generate", r.RSquared); err != nil {
		return err
	}

	adj, err := metrics.AdjustedR2(r.RSquared, n, Regressors)
	if err != nil {
		return err
	}
	ft, err := metrics.FStatistic(ss, Regressors)
	if err != nil {
		return err
	}
	rmse, err := metrics.RMSE(y, fitted)
	if err != nil {
		return err
	}
	mae, err := metrics.MAE(y, fitted)
	if err != nil {
		return err
	}

	r.Fit = FitStats{
		SST:           ss.SST,
		SSR:           ss.SSR,
		SSE:           ss.SSE,
		AdjustedR2:    adj,
		LogLikelihood: metrics.LogLikelihood(ss.SSE, n),
		AIC:           metrics.AIC(ss.SSE, n, Regressors),
		BIC:           metrics.BIC(ss.SSE, n, Regressors),
		FStatistic:    ft.Statistic,
		FPValue:       ft.PValue,
		RMSE:          rmse,
		MAE:           mae,
		MeanResponse:  stat.Mean(r.Y, nil),
		MeanFitted:    stat.Mean(r.Fitted, nil),
	}
	return nil
}
