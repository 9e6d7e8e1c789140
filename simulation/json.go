package simulation

import (
	"encoding/json"
	"math"
)

// finite は NaN と ±Inf を nil にする。encoding/json はそれらを表現できない
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON は残差が 0 のとき発散する指標を null として書き出す
func (f FitStats) MarshalJSON() ([]byte, error) {
	type plain FitStats
	return json.Marshal(struct {
		plain
		LogLikelihood *float64 `json:"log_likelihood"`
		AIC           *float64 `json:"aic"`
		BIC           *float64 `json:"bic"`
		FStatistic    *float64 `json:"f_statistic"`
	}{
		plain:         plain(f),
		LogLikelihood: finite(f.LogLikelihood),
		AIC:           finite(f.AIC),
		BIC:           finite(f.BIC),
		FStatistic:    finite(f.FStatistic),
	})
}

// MarshalJSON は標準誤差が 0 のときの t 値と p 値を null として書き出す
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	var tv, pv [Regressors]*float64
	for i := 0; i < Regressors; i++ {
		tv[i] = finite(r.TValues[i])
		pv[i] = finite(r.PValues[i])
	}
	return json.Marshal(struct {
		plain
		TValues [Regressors]*float64 `json:"t_values"`
		PValues [Regressors]*float64 `json:"p_values"`
	}{
		plain:   plain(r),
		TValues: tv,
		PValues: pv,
	})
}
