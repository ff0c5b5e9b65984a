package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/tracing"
)

const (
	runStatusSuccess = "success"
	runStatusError   = "error"
)

type namedPolicy struct {
	name      config.PolicyName
	allocator domain.Allocator
}

// Service runs a set of policies over an instance and reports the outcomes.
type Service struct {
	policies []namedPolicy
	recorder domain.AllocationResultRecorder
	metrics  *metrics.AllocationMetrics
	now      func() time.Time
	newRunID func() string
}

type Option func(*Service)

func WithRecorder(recorder domain.AllocationResultRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func WithMetrics(m *metrics.AllocationMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithRunIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newRunID = gen
	}
}

// NewService builds every named policy up front so configuration errors
// surface before any run.
func NewService(catalog *Catalog, names []config.PolicyName, opts ...Option) (*Service, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no policies selected", domain.ErrInvalidConfiguration)
	}

	s := &Service{
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, name := range names {
		allocator, err := catalog.Build(name)
		if err != nil {
			return nil, err
		}
		s.policies = append(s.policies, namedPolicy{name: name, allocator: allocator})
	}

	return s, nil
}

// PolicyResult is one policy's allocation and its derived outcomes.
type PolicyResult struct {
	Policy     config.PolicyName
	Assignment domain.Assignment
	Outcomes   []domain.FlightOutcome
	Summary    domain.Summary
	Duration   time.Duration
}

type RunResult struct {
	RunID    string
	Trial    int
	Policies []PolicyResult
}

// Policy returns the result for name, if it was run.
func (r *RunResult) Policy(name config.PolicyName) (PolicyResult, bool) {
	for _, p := range r.Policies {
		if p.Policy == name {
			return p, true
		}
	}
	return PolicyResult{}, false
}

// Run allocates a single instance under every selected policy.
func (s *Service) Run(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (*RunResult, error) {
	return s.runTrial(ctx, s.newRunID(), 0, slots, flights)
}

// InstanceSource yields the instance for a trial.
type InstanceSource func(trial int) ([]domain.Slot, []domain.Flight)

// RunTrials runs every policy on trials instances drawn from source. All
// trials share one run id.
func (s *Service) RunTrials(ctx context.Context, trials int, source InstanceSource) ([]*RunResult, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive", domain.ErrInvalidConfiguration)
	}

	runID := s.newRunID()
	results := make([]*RunResult, 0, trials)
	for trial := range trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slots, flights := source(trial)
		result, err := s.runTrial(ctx, runID, trial, slots, flights)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) runTrial(ctx context.Context, runID string, trial int, slots []domain.Slot, flights []domain.Flight) (result *RunResult, err error) {
	ctx, span := tracing.StartRunSpan(ctx, runID, trial, len(slots), len(flights))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	if err := domain.ValidateInstance(slots, flights); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "allocation trial started",
		slog.String("run_id", runID),
		slog.Int("trial", trial),
		slog.Int("slot_count", len(slots)),
		slog.Int("flight_count", len(flights)),
		slog.Int("policy_count", len(s.policies)),
	)

	result = &RunResult{RunID: runID, Trial: trial}
	for _, p := range s.policies {
		pr, err := s.runPolicy(ctx, p, slots, flights)
		if err != nil {
			return nil, err
		}
		result.Policies = append(result.Policies, pr)
	}

	s.record(ctx, result)

	slog.InfoContext(ctx, "allocation trial completed",
		slog.String("run_id", runID),
		slog.Int("trial", trial),
	)

	return result, nil
}

func (s *Service) runPolicy(ctx context.Context, p namedPolicy, slots []domain.Slot, flights []domain.Flight) (result PolicyResult, err error) {
	ctx, span := tracing.StartPolicySpan(ctx, string(p.name))
	start := s.now()
	defer func() {
		status := runStatusSuccess
		if err != nil {
			status = runStatusError
		}
		s.metrics.RecordRun(ctx, string(p.name), status)
		s.metrics.RecordPolicyDuration(ctx, string(p.name), s.now().Sub(start))
		tracing.RecordPolicyResult(span, len(result.Assignment), result.Summary.Rerouted, err)
		span.End()
	}()

	assignment, err := p.allocator.Allocate(ctx, slots, flights)
	if err != nil {
		slog.ErrorContext(ctx, "allocation policy failed",
			slog.String("policy", string(p.name)),
			slog.String("error", err.Error()),
		)
		return PolicyResult{}, fmt.Errorf("policy %s: %w", p.name, err)
	}

	if err := validateOutput(slots, flights, assignment); err != nil {
		return PolicyResult{}, fmt.Errorf("policy %s: %w", p.name, err)
	}

	outcomes := domain.Outcomes(assignment, flights)
	summary := domain.Summarize(outcomes)
	duration := s.now().Sub(start)

	s.metrics.RecordRerouted(ctx, string(p.name), summary.Rerouted)

	slog.InfoContext(ctx, "allocation policy completed",
		slog.String("policy", string(p.name)),
		slog.Int("assigned", len(assignment)),
		slog.Int("rerouted", summary.Rerouted),
		slog.Float64("total_seconds", summary.Total),
		slog.Float64("weighted_total_seconds", summary.WeightedTotal),
		slog.Duration("duration", duration),
	)

	return PolicyResult{
		Policy:     p.name,
		Assignment: assignment,
		Outcomes:   outcomes,
		Summary:    summary,
		Duration:   duration,
	}, nil
}

// validateOutput checks that a policy only placed known flights into known
// slots, injectively and feasibly.
func validateOutput(slots []domain.Slot, flights []domain.Flight, a domain.Assignment) error {
	knownSlots := make(map[domain.SlotID]domain.Slot, len(slots))
	for _, s := range slots {
		knownSlots[s.ID] = s
	}
	knownFlights := make(map[domain.FlightID]bool, len(flights))
	for _, f := range flights {
		knownFlights[f.ID] = true
	}

	for _, id := range a.SortedFlightIDs() {
		p := a[id]
		if !knownFlights[id] {
			return fmt.Errorf("%w: unknown flight %s in assignment", domain.ErrInvalidInstance, id)
		}
		if s, ok := knownSlots[p.Slot.ID]; !ok || !s.Time.Equal(p.Slot.Time) {
			return fmt.Errorf("%w: unknown slot %s in assignment", domain.ErrInvalidInstance, p.Slot.ID)
		}
	}

	return a.Validate()
}

// record hands results to the recorder. Recorder failures are logged and
// never fail the run.
func (s *Service) record(ctx context.Context, result *RunResult) {
	if s.recorder == nil {
		return
	}

	recordedAt := s.now()
	var flightRecords []domain.AllocationResultRecord
	summaries := make([]domain.PolicySummaryRecord, 0, len(result.Policies))
	for _, p := range result.Policies {
		for _, o := range p.Outcomes {
			flightRecords = append(flightRecords, domain.AllocationResultRecord{
				RunID:    result.RunID,
				Trial:    result.Trial,
				Policy:   string(p.Policy),
				Outcome:  o,
				Recorded: recordedAt,
			})
		}
		summaries = append(summaries, domain.PolicySummaryRecord{
			RunID:    result.RunID,
			Trial:    result.Trial,
			Policy:   string(p.Policy),
			Summary:  p.Summary,
			Duration: p.Duration,
		})
	}

	if err := s.recorder.RecordFlightResults(ctx, flightRecords); err != nil {
		slog.WarnContext(ctx, "failed to record flight results",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.recorder.RecordPolicySummaries(ctx, summaries); err != nil {
		slog.WarnContext(ctx, "failed to record policy summaries",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()),
		)
	}
}

// PolicyAverage is a policy's mean outcome across trials, in seconds per flight.
type PolicyAverage struct {
	Policy                config.PolicyName
	Trials                int
	MeanRerouted          float64
	MeanTotal             float64
	MeanWeightedTotal     float64
	MeanTotalPerFlight    float64
	MeanWeightedPerFlight float64
}

// Average aggregates trial results per policy, ordered as the policies ran.
func Average(results []*RunResult) []PolicyAverage {
	index := make(map[config.PolicyName]int)
	var averages []PolicyAverage

	for _, r := range results {
		for _, p := range r.Policies {
			i, ok := index[p.Policy]
			if !ok {
				i = len(averages)
				index[p.Policy] = i
				averages = append(averages, PolicyAverage{Policy: p.Policy})
			}
			a := &averages[i]
			a.Trials++
			a.MeanRerouted += float64(p.Summary.Rerouted)
			a.MeanTotal += p.Summary.Total
			a.MeanWeightedTotal += p.Summary.WeightedTotal
			a.MeanTotalPerFlight += p.Summary.AverageTotal()
			a.MeanWeightedPerFlight += p.Summary.AverageWeightedTotal()
		}
	}

	for i := range averages {
		n := float64(averages[i].Trials)
		averages[i].MeanRerouted /= n
		averages[i].MeanTotal /= n
		averages[i].MeanWeightedTotal /= n
		averages[i].MeanTotalPerFlight /= n
		averages[i].MeanWeightedPerFlight /= n
	}

	return averages
}
