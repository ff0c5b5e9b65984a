package config

import (
	"os"
	"strconv"
	"time"
)

const (
	slotsPerHourEnv    = "SLOTS_PER_HOUR"
	slotWindowStartEnv = "SLOT_WINDOW_START"
	slotWindowEndEnv   = "SLOT_WINDOW_END"
	rtcDistCEnv        = "RTC_DIST_C"
	rtcDistLocEnv      = "RTC_DIST_LOC"
	rtcDistScaleEnv    = "RTC_DIST_SCALE"
	weightDistCEnv     = "WEIGHT_DIST_C"
	weightDistLocEnv   = "WEIGHT_DIST_LOC"
	weightDistScaleEnv = "WEIGHT_DIST_SCALE"
	trialsEnv          = "TRIALS"
	seedEnv            = "SEED"

	defaultSlotsPerHour    = 30
	defaultSlotWindowStart = 16 * time.Hour
	defaultSlotWindowEnd   = 36 * time.Hour
	defaultTrials          = 1
	defaultSeed            = 1
)

// DistributionConfig parameterises a triangular distribution on
// [Loc, Loc+Scale] with its mode at Loc + C*Scale.
type DistributionConfig struct {
	C     float64
	Loc   float64
	Scale float64
}

func (d DistributionConfig) Validate() error {
	if d.C < 0 || d.C > 1 || d.Scale <= 0 {
		return ErrInvalidDistribution
	}
	return nil
}

// InstanceConfig controls how instances are built from a schedule.
type InstanceConfig struct {
	SlotsPerHour int
	// Slot window offsets from the schedule base time.
	SlotWindowStart time.Duration
	SlotWindowEnd   time.Duration

	RerouteCost DistributionConfig // seconds
	Weight      DistributionConfig

	Trials int
	Seed   uint64
}

func DefaultInstanceConfig() *InstanceConfig {
	return &InstanceConfig{
		SlotsPerHour:    defaultSlotsPerHour,
		SlotWindowStart: defaultSlotWindowStart,
		SlotWindowEnd:   defaultSlotWindowEnd,
		RerouteCost:     DistributionConfig{C: 0.2, Loc: 0, Scale: 90 * 60},
		Weight:          DistributionConfig{C: 0.25, Loc: 0, Scale: 2},
		Trials:          defaultTrials,
		Seed:            defaultSeed,
	}
}

func LoadInstanceConfig() *InstanceConfig {
	cfg := DefaultInstanceConfig()

	if v, ok := positiveInt(slotsPerHourEnv); ok {
		cfg.SlotsPerHour = v
	}
	if v, ok := nonNegativeDuration(slotWindowStartEnv); ok {
		cfg.SlotWindowStart = v
	}
	if v, ok := nonNegativeDuration(slotWindowEndEnv); ok {
		cfg.SlotWindowEnd = v
	}

	cfg.RerouteCost = loadDistribution(cfg.RerouteCost, rtcDistCEnv, rtcDistLocEnv, rtcDistScaleEnv)
	cfg.Weight = loadDistribution(cfg.Weight, weightDistCEnv, weightDistLocEnv, weightDistScaleEnv)

	if v, ok := positiveInt(trialsEnv); ok {
		cfg.Trials = v
	}
	if raw := os.Getenv(seedEnv); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cfg.Seed = parsed
		}
	}

	return cfg
}

func (c *InstanceConfig) Validate() error {
	if c.SlotsPerHour <= 0 {
		return ErrInvalidSlotsPerHour
	}
	if c.SlotWindowEnd < c.SlotWindowStart {
		return ErrInvalidSlotWindow
	}
	if c.Trials <= 0 {
		return ErrInvalidTrials
	}
	if err := c.RerouteCost.Validate(); err != nil {
		return err
	}
	return c.Weight.Validate()
}

// loadDistribution keeps the current value of any parameter that is missing or
// unparsable.
func loadDistribution(current DistributionConfig, cEnv, locEnv, scaleEnv string) DistributionConfig {
	if v, ok := float(cEnv); ok && v >= 0 && v <= 1 {
		current.C = v
	}
	if v, ok := float(locEnv); ok {
		current.Loc = v
	}
	if v, ok := float(scaleEnv); ok && v > 0 {
		current.Scale = v
	}
	return current
}

func positiveInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func float(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func nonNegativeDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
