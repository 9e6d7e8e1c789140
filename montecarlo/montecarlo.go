// Package montecarlo は多数のシードで Generate を繰り返し、推定量の標本分布を要約する
package montecarlo

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/olsfit/core/parallel"
	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/pkg/log"
	"github.com/YuminosukeSato/olsfit/simulation"
)

// Study は繰り返し実験の設定
type Study struct {
	// Params.Seed は使わない。シードは [StartSeed, StartSeed+Trials) を順に使う
	Params    simulation.Params
	StartSeed uint64
	Trials    int
	Workers   int     // 0 以下ならCPUコア数
	X0        float64 // 信頼区間の被覆率を調べる説明変数の値
}

// Summary は実験結果の要約
type Summary struct {
	Trials   int `json:"trials"`
	Failures int `json:"failures"` // 計画行列が特異で推定できなかった試行

	MeanR2         float64 `json:"mean_r2"`
	StdDevR2       float64 `json:"stddev_r2"`
	MeanAdjustedR2 float64 `json:"mean_adjusted_r2"`

	MeanResidualStdError float64 `json:"mean_residual_std_error"`

	MeanIntercept   float64 `json:"mean_intercept"`
	StdDevIntercept float64 `json:"stddev_intercept"`
	MeanSlope       float64 `json:"mean_slope"`
	StdDevSlope     float64 `json:"stddev_slope"`

	X0         float64 `json:"x0"`
	TrueMean   float64 `json:"true_mean"` // β₀ + β₁x₀
	Coverage   float64 `json:"coverage"`  // 真の平均応答を含んだ信頼区間の割合
	Confidence float64 `json:"confidence"`
	DurationMs int64   `json:"duration_ms"`
}

type trial struct {
	ok      bool
	r2      float64
	adjR2   float64
	s       float64
	b0, b1  float64
	covered bool
}

// Run は全試行を並列に実行して要約する
//
// 特異な計画行列による ComputationError は失敗として数えて続行する。
// それ以外のエラーとコンテキストのキャンセルは即座に返す。
func Run(ctx context.Context, study Study) (*Summary, error) {
	if study.Trials <= 0 {
		return nil, errors.NewValidationError("trials", "must be positive", study.Trials)
	}
	if err := study.Params.Validate(); err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("montecarlo").With(log.OperationKey, log.OperationStudy)
	start := time.Now()
	truth := study.Params.MeanResponse(study.X0)

	trials := make([]trial, study.Trials)
	err := parallel.ForEach(ctx, study.Trials, study.Workers, func(_ context.Context, i int) error {
		res, err := simulation.Generate(study.Params.WithSeed(study.StartSeed + uint64(i)))
		if err != nil {
			if errors.Is(err, errors.ErrComputation) {
				return nil
			}
			return err
		}
		trials[i] = trial{
			ok:      true,
			r2:      res.RSquared,
			adjR2:   res.Fit.AdjustedR2,
			s:       res.ResidualStdError,
			b0:      res.Coefficients[0],
			b1:      res.Coefficients[1],
			covered: res.MeanResponseInterval(study.X0).Contains(truth),
		}
		return nil
	})
	if err != nil {
		logger.Error("study aborted", "error", err)
		return nil, err
	}

	sum := summarize(trials)
	sum.X0 = study.X0
	sum.TrueMean = truth
	sum.Confidence = simulation.DefaultConfidenceLevel
	sum.DurationMs = time.Since(start).Milliseconds()

	if sum.Failures == sum.Trials {
		return nil, errors.NewComputationError("montecarlo.Run", "every trial failed", 0, errors.ErrSingularMatrix)
	}

	logger.Info("study finished",
		log.TrialsKey, sum.Trials,
		log.WorkersKey, parallel.Workers(study.Trials, study.Workers),
		log.R2ScoreKey, sum.MeanR2,
		log.CoverageKey, sum.Coverage,
		log.DurationMsKey, sum.DurationMs,
	)
	return sum, nil
}

func summarize(trials []trial) *Summary {
	var r2, adj, s, b0, b1 []float64
	covered := 0
	for _, t := range trials {
		if !t.ok {
			continue
		}
		r2 = append(r2, t.r2)
		adj = append(adj, t.adjR2)
		s = append(s, t.s)
		b0 = append(b0, t.b0)
		b1 = append(b1, t.b1)
		if t.covered {
			covered++
		}
	}

	sum := &Summary{Trials: len(trials), Failures: len(trials) - len(r2)}
	if len(r2) == 0 {
		return sum
	}
	sum.MeanR2, sum.StdDevR2 = meanStdDev(r2)
	sum.MeanAdjustedR2 = stat.Mean(adj, nil)
	sum.MeanResidualStdError = stat.Mean(s, nil)
	sum.MeanIntercept, sum.StdDevIntercept = meanStdDev(b0)
	sum.MeanSlope, sum.StdDevSlope = meanStdDev(b1)
	sum.Coverage = float64(covered) / float64(len(r2))
	return sum
}

// 1件しかない場合、標本標準偏差は 0 とする
func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
