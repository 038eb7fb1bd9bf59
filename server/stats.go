package main

import (
	"math"
	"math/rand"
	"sort"
)

// LeakStat summarizes one learning-tag bucket for the read API. The mean
// carries a bootstrap CI; the loss rate carries a Wilson CI.
type LeakStat struct {
	Tag      string  `json:"tag"`
	Hands    int     `json:"hands"`
	MeanBB   float64 `json:"mean_bb"`
	CILow    float64 `json:"ci_low"`
	CIHigh   float64 `json:"ci_high"`
	LossRate float64 `json:"loss_rate"`
	LossLow  float64 `json:"loss_low"`
	LossHigh float64 `json:"loss_high"`
}

// LeakStatsFromSamples turns per-tag result_bb samples into ranked leak
// stats, worst mean first. Small buckets stay in the list with a wide CI.
func LeakStatsFromSamples(samples map[string][]float64, bootstrapB int) []LeakStat {
	out := make([]LeakStat, 0, len(samples))
	for tag, vals := range samples {
		if len(vals) == 0 {
			continue
		}
		sum, losses := 0.0, 0
		for _, v := range vals {
			sum += v
			if v < 0 {
				losses++
			}
		}
		low, hi := BootstrapCI95(vals, bootstrapB)
		lossLow, lossHigh := WilsonCI95(losses, 0, len(vals))
		out = append(out, LeakStat{
			Tag:      tag,
			Hands:    len(vals),
			MeanBB:   sum / float64(len(vals)),
			CILow:    low,
			CIHigh:   hi,
			LossRate: float64(losses) / float64(len(vals)),
			LossLow:  lossLow,
			LossHigh: lossHigh,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanBB != out[j].MeanBB {
			return out[i].MeanBB < out[j].MeanBB
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// WilsonCI95 for a Bernoulli rate (e.g. loss frequency within a tag bucket).
func WilsonCI95(wins, ties, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := (float64(wins) + 0.5*float64(ties)) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}

// BootstrapCI95 for the mean of values (per-hand results in big blinds).
func BootstrapCI95(vals []float64, B int) (low, hi float64) {
	n := len(vals)
	if n == 0 || B <= 1 {
		return 0, 0
	}
	res := make([]float64, B)
	for b := 0; b < B; b++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vals[rand.Intn(n)]
		}
		res[b] = sum / float64(n)
	}
	sort.Float64s(res)
	l := int(0.025 * float64(B-1))
	h := int(0.975 * float64(B-1))
	return res[l], res[h]
}
