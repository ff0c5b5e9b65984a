package instance

import (
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Generator produces one instance per trial from a fixed schedule. Slots are
// shared across trials; reroute costs and weights are re-sampled each time
// from a single seeded sampler, so a run is reproducible from its seed.
type Generator struct {
	rows     []ScheduleRow
	baseTime time.Time
	model    CostModel
	slots    []domain.Slot
	sampler  *Sampler
}

type GeneratorConfig struct {
	BaseTime        time.Time
	SlotWindowStart time.Duration
	SlotWindowEnd   time.Duration
	SlotsPerHour    int
	Model           CostModel
	Seed            uint64
}

func NewGenerator(rows []ScheduleRow, cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.Model.RerouteCost.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Model.Weight.Validate(); err != nil {
		return nil, err
	}

	return &Generator{
		rows:     rows,
		baseTime: cfg.BaseTime,
		model:    cfg.Model,
		slots:    GenerateSlots(cfg.BaseTime.Add(cfg.SlotWindowStart), cfg.BaseTime.Add(cfg.SlotWindowEnd), cfg.SlotsPerHour),
		sampler:  NewSampler(cfg.Seed),
	}, nil
}

// Next samples the next trial's instance with per-airline normalised weights.
func (g *Generator) Next() Instance {
	flights := NormalizeWeights(BuildFlights(g.rows, g.baseTime, g.model, g.sampler))
	slots := make([]domain.Slot, len(g.slots))
	copy(slots, g.slots)

	return Instance{Slots: slots, Flights: flights}
}
