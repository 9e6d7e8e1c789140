package simulation

import (
	"sync"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/pkg/log"
)

const (
	// DefaultSeed は初回描画に使う固定シード
	DefaultSeed uint64 = 0
	// DefaultSeedBound は再抽出シードの上限（排他的）
	DefaultSeedBound = 10000
)

// SeedSource は再抽出シードを引く乱数源。*rand.Rand が満たす
type SeedSource interface {
	IntN(n int) int
}

// DrawSeed は [0, bound) の一様なシードを引く
func DrawSeed(rng SeedSource, bound int) (uint64, error) {
	if bound <= 0 {
		return 0, errors.NewValidationError("seed_bound", "must be positive", bound)
	}
	return uint64(rng.IntN(bound)), nil
}

// Session は呼び出し側が保持する現在のパラメータとシード
//
// シードは Resample を呼んだときだけ変わる。
type Session struct {
	mu        sync.Mutex
	id        string
	params    Params
	seedBound int
	last      *Result
}

// NewSession は初期パラメータでセッションを作る
func NewSession(params Params, seedBound int) *Session {
	if seedBound <= 0 {
		seedBound = DefaultSeedBound
	}
	return &Session{
		id:        uuid.NewString(),
		params:    params,
		seedBound: seedBound,
	}
}

// ID はセッションの識別子を返す
func (s *Session) ID() string {
	return s.id
}

// Params は現在のパラメータを返す
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Last は直近の結果を返す。まだ生成していなければ nil
func (s *Session) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Update はシードを保ったまま母数とサンプルサイズを差し替えて再生成する
func (s *Session) Update(intercept, slope, errorStdDev float64, sampleSize int) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.params
	next.Intercept = intercept
	next.Slope = slope
	next.ErrorStdDev = errorStdDev
	next.SampleSize = sampleSize
	return s.generateLocked(next)
}

// Current は現在のパラメータで生成する
func (s *Session) Current() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateLocked(s.params)
}

// Resample は新しいシードを rng から引き、同じ母数で再生成する
func (s *Session) Resample(rng SeedSource) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed, err := DrawSeed(rng, s.seedBound)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("simulation").Info("resampling",
		log.SessionIDKey, s.id,
		log.OperationKey, log.OperationResample,
		log.RandomSeedKey, seed,
	)
	return s.generateLocked(s.params.WithSeed(seed))
}

// パラメータは生成に成功したときだけ確定する
func (s *Session) generateLocked(p Params) (*Result, error) {
	res, err := Generate(p)
	if err != nil {
		return nil, err
	}
	s.params = p
	s.last = res
	return res, nil
}
