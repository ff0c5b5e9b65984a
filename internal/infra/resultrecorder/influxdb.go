//go:build !gcloud

package resultrecorder

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

type influxDBRecorder struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	bucket      string
	org         string
	skipFlights bool
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AllocationResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "allocation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, allocation result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "allocation result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:      client,
		writeAPI:    writeAPI,
		bucket:      cfg.InfluxDBBucket,
		org:         cfg.InfluxDBOrg,
		skipFlights: cfg.SkipFlights,
	}, nil
}

func flightPoint(record domain.AllocationResultRecord) *write.Point {
	o := record.Outcome

	fields := map[string]any{
		"ground_delay":          o.GroundDelay,
		"reroute_cost":          o.RerouteCost,
		"total":                 o.Total,
		"weighted_ground_delay": o.WeightedGroundDelay,
		"weighted_reroute_cost": o.WeightedRerouteCost,
		"weighted_total":        o.WeightedTotal,
		"rerouted":              o.Rerouted,
	}
	if !o.Rerouted {
		fields["slot_id"] = string(o.SlotID)
		fields["slot_unix"] = o.SlotTime.Unix()
	}

	return influxdb2.NewPoint(
		"allocation_flight",
		map[string]string{
			"run_id":    runIDOrDefault(record.RunID),
			"trial":     strconv.Itoa(record.Trial),
			"policy":    record.Policy,
			"airline":   string(o.Airline),
			"flight_id": string(o.FlightID),
		},
		fields,
		recordTime(record.Recorded),
	)
}

func summaryPoint(record domain.PolicySummaryRecord) *write.Point {
	s := record.Summary

	return influxdb2.NewPoint(
		"allocation_summary",
		map[string]string{
			"run_id": runIDOrDefault(record.RunID),
			"trial":  strconv.Itoa(record.Trial),
			"policy": record.Policy,
		},
		map[string]any{
			"flights":               s.Flights,
			"rerouted":              s.Rerouted,
			"ground_delay":          s.GroundDelay,
			"reroute_cost":          s.RerouteCost,
			"total":                 s.Total,
			"weighted_ground_delay": s.WeightedGroundDelay,
			"weighted_reroute_cost": s.WeightedRerouteCost,
			"weighted_total":        s.WeightedTotal,
			"duration_seconds":      record.Duration.Seconds(),
		},
		time.Now(),
	)
}

func (r *influxDBRecorder) RecordFlightResults(ctx context.Context, records []domain.AllocationResultRecord) error {
	if len(records) == 0 || r.skipFlights {
		return nil
	}

	points := make([]*write.Point, 0, len(records))
	for _, record := range records {
		points = append(points, flightPoint(record))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		slog.WarnContext(ctx, "failed to write flight results to InfluxDB",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *influxDBRecorder) RecordPolicySummaries(ctx context.Context, records []domain.PolicySummaryRecord) error {
	for _, record := range records {
		if err := r.writeAPI.WritePoint(ctx, summaryPoint(record)); err != nil {
			slog.WarnContext(ctx, "failed to write policy summary to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("policy", record.Policy),
				slog.Int("trial", record.Trial),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}

func runIDOrDefault(runID string) string {
	if runID == "" {
		return "default"
	}
	return runID
}

// recordTime keeps points from separate trials distinct when the caller did
// not stamp them.
func recordTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
