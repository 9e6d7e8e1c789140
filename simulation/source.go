package simulation

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source はシード可能な乱数源
//
// 同じシードで作られた Source は同じ値の列を返さなければならない。
type Source interface {
	// Uniform は [min, max) の一様乱数を返す
	Uniform(min, max float64) float64
	// Normal は平均 mean、標準偏差 stddev の正規乱数を返す
	Normal(mean, stddev float64) float64
}

// PCGの第2状態語。シード値だけで系列が決まるよう固定する
const pcgStream = 0x9e3779b97f4a7c15

// NewSource はPCG生成器を使ったSourceを返す
func NewSource(seed uint64) Source {
	return &pcgSource{src: rand.NewPCG(seed, pcgStream)}
}

type pcgSource struct {
	src rand.Source
}

func (s *pcgSource) Uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

func (s *pcgSource) Normal(mean, stddev float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: s.src}.Rand()
}
