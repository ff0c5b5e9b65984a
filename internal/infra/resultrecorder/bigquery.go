//go:build gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

type bigQueryFlightRecord struct {
	RecordedAt          time.Time              `bigquery:"recorded_at"`
	RunID               string                 `bigquery:"run_id"`
	Trial               int64                  `bigquery:"trial"`
	Policy              string                 `bigquery:"policy"`
	FlightID            string                 `bigquery:"flight_id"`
	Airline             string                 `bigquery:"airline"`
	SlotID              bigquery.NullString    `bigquery:"slot_id"`
	SlotTime            bigquery.NullTimestamp `bigquery:"slot_time"`
	Rerouted            bool                   `bigquery:"rerouted"`
	GroundDelay         float64                `bigquery:"ground_delay"`
	RerouteCost         float64                `bigquery:"reroute_cost"`
	Total               float64                `bigquery:"total"`
	WeightedGroundDelay float64                `bigquery:"weighted_ground_delay"`
	WeightedRerouteCost float64                `bigquery:"weighted_reroute_cost"`
	WeightedTotal       float64                `bigquery:"weighted_total"`
}

type bigQuerySummaryRecord struct {
	RecordedAt      time.Time `bigquery:"recorded_at"`
	RunID           string    `bigquery:"run_id"`
	Trial           int64     `bigquery:"trial"`
	Policy          string    `bigquery:"policy"`
	Flights         int64     `bigquery:"flights"`
	Rerouted        int64     `bigquery:"rerouted"`
	Total           float64   `bigquery:"total"`
	WeightedTotal   float64   `bigquery:"weighted_total"`
	DurationSeconds float64   `bigquery:"duration_seconds"`
}

type bigQueryRecorder struct {
	client          *bigquery.Client
	flightInserter  *bigquery.Inserter
	summaryInserter *bigquery.Inserter
	skipFlights     bool
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AllocationResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, allocation result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	dataset := client.Dataset(cfg.BigQueryDataset)

	slog.InfoContext(ctx, "allocation result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("flight_table", cfg.BigQueryFlightTable),
		slog.String("summary_table", cfg.BigQuerySummaryTable),
	)

	return &bigQueryRecorder{
		client:          client,
		flightInserter:  dataset.Table(cfg.BigQueryFlightTable).Inserter(),
		summaryInserter: dataset.Table(cfg.BigQuerySummaryTable).Inserter(),
		skipFlights:     cfg.SkipFlights,
	}, nil
}

func (r *bigQueryRecorder) RecordFlightResults(ctx context.Context, records []domain.AllocationResultRecord) error {
	if len(records) == 0 || r.skipFlights {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryFlightRecord, 0, len(records))
	for _, record := range records {
		o := record.Outcome
		row := &bigQueryFlightRecord{
			RecordedAt:          now,
			RunID:               record.RunID,
			Trial:               int64(record.Trial),
			Policy:              record.Policy,
			FlightID:            string(o.FlightID),
			Airline:             string(o.Airline),
			Rerouted:            o.Rerouted,
			GroundDelay:         o.GroundDelay,
			RerouteCost:         o.RerouteCost,
			Total:               o.Total,
			WeightedGroundDelay: o.WeightedGroundDelay,
			WeightedRerouteCost: o.WeightedRerouteCost,
			WeightedTotal:       o.WeightedTotal,
		}
		if !o.Rerouted {
			row.SlotID = bigquery.NullString{StringVal: string(o.SlotID), Valid: true}
			row.SlotTime = bigquery.NullTimestamp{Timestamp: o.SlotTime, Valid: true}
		}
		rows = append(rows, row)
	}

	if err := r.flightInserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert flight results to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) RecordPolicySummaries(ctx context.Context, records []domain.PolicySummaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQuerySummaryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQuerySummaryRecord{
			RecordedAt:      now,
			RunID:           record.RunID,
			Trial:           int64(record.Trial),
			Policy:          record.Policy,
			Flights:         int64(record.Summary.Flights),
			Rerouted:        int64(record.Summary.Rerouted),
			Total:           record.Summary.Total,
			WeightedTotal:   record.Summary.WeightedTotal,
			DurationSeconds: record.Duration.Seconds(),
		})
	}

	if err := r.summaryInserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert policy summaries to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
