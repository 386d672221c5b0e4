package recommend

import (
	"math/rand"

	"stayfinder/internal/domain"
)

// svdParams mirror the classic biased matrix-factorisation defaults
// (100 latent factors, 20 SGD epochs, learning rate 0.005, reg 0.02).
// The fixed seed makes per-request retraining deterministic: identical
// training rows always produce identical predictions.
type svdParams struct {
	Factors int
	Epochs  int
	LR      float64
	Reg     float64
	Seed    int64
}

func defaultSVDParams() svdParams {
	return svdParams{Factors: 100, Epochs: 20, LR: 0.005, Reg: 0.02, Seed: 42}
}

type svdModel struct {
	mean    float64
	userIdx map[int64]int
	itemIdx map[int64]int
	bu, bi  []float64
	pu, qi  [][]float64
}

// fitSVD trains user/item biases and latent factors by stochastic gradient
// descent over the full rating matrix.
func fitSVD(rows []domain.RatingSignal, p svdParams) *svdModel {
	m := &svdModel{
		userIdx: map[int64]int{},
		itemIdx: map[int64]int{},
	}
	if len(rows) == 0 {
		return m
	}

	var sum float64
	for _, r := range rows {
		if _, ok := m.userIdx[r.UserID]; !ok {
			m.userIdx[r.UserID] = len(m.userIdx)
		}
		if _, ok := m.itemIdx[r.HotelID]; !ok {
			m.itemIdx[r.HotelID] = len(m.itemIdx)
		}
		sum += r.Rating
	}
	m.mean = sum / float64(len(rows))

	rng := rand.New(rand.NewSource(p.Seed))
	m.bu = make([]float64, len(m.userIdx))
	m.bi = make([]float64, len(m.itemIdx))
	m.pu = randomFactors(rng, len(m.userIdx), p.Factors)
	m.qi = randomFactors(rng, len(m.itemIdx), p.Factors)

	// One seeded shuffle up front; epoch order is then fixed so runs with the
	// same rows are bit-identical.
	order := rng.Perm(len(rows))

	for epoch := 0; epoch < p.Epochs; epoch++ {
		for _, idx := range order {
			r := rows[idx]
			u := m.userIdx[r.UserID]
			i := m.itemIdx[r.HotelID]

			pred := m.mean + m.bu[u] + m.bi[i] + dot(m.pu[u], m.qi[i])
			e := r.Rating - pred

			m.bu[u] += p.LR * (e - p.Reg*m.bu[u])
			m.bi[i] += p.LR * (e - p.Reg*m.bi[i])
			for f := 0; f < p.Factors; f++ {
				puf, qif := m.pu[u][f], m.qi[i][f]
				m.pu[u][f] += p.LR * (e*qif - p.Reg*puf)
				m.qi[i][f] += p.LR * (e*puf - p.Reg*qif)
			}
		}
	}
	return m
}

// predict estimates the user's rating for a hotel on the 1..5 scale.
// known is false when neither the user nor the hotel appeared in training, in
// which case the estimate is just the global mean and carries no signal.
func (m *svdModel) predict(userID, hotelID int64) (est float64, known bool) {
	u, uok := m.userIdx[userID]
	i, iok := m.itemIdx[hotelID]

	est = m.mean
	if uok {
		est += m.bu[u]
	}
	if iok {
		est += m.bi[i]
	}
	if uok && iok {
		est += dot(m.pu[u], m.qi[i])
	}
	return clamp(est, 1, 5), uok || iok
}

func randomFactors(rng *rand.Rand, n, factors int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, factors)
		for f := range row {
			row[f] = rng.NormFloat64() * 0.1
		}
		out[i] = row
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
