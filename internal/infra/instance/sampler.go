package instance

import (
	"errors"
	"math"
	"math/rand/v2"
)

var ErrInvalidDistribution = errors.New("invalid distribution parameters")

// Triangular is a triangular distribution on [Loc, Loc+Scale] with its mode at
// Loc + C*Scale.
type Triangular struct {
	C     float64
	Loc   float64
	Scale float64
}

func (t Triangular) Validate() error {
	if t.C < 0 || t.C > 1 || t.Scale <= 0 || math.IsNaN(t.Loc) {
		return ErrInvalidDistribution
	}
	return nil
}

func (t Triangular) Mode() float64 {
	return t.Loc + t.C*t.Scale
}

// Quantile is the inverse CDF at u in [0, 1].
func (t Triangular) Quantile(u float64) float64 {
	if u < t.C {
		return t.Loc + t.Scale*math.Sqrt(t.C*u)
	}
	return t.Loc + t.Scale*(1-math.Sqrt((1-t.C)*(1-u)))
}

// Sampler draws reproducible variates from a seeded source.
type Sampler struct {
	rng *rand.Rand
}

func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Sampler) Triangular(t Triangular) float64 {
	return t.Quantile(s.rng.Float64())
}
