//go:build !gcloud

package resultrecorder

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ALLOCATION_RESULTS_DISABLED", "")
	t.Setenv("INFLUXDB_URL", "")
	t.Setenv("INFLUXDB_BUCKET", "")
	t.Setenv("BIGQUERY_DATASET", "")

	cfg := LoadConfig()

	if cfg.Disabled {
		t.Error("expected recording enabled by default")
	}
	if cfg.InfluxDBURL != "http://localhost:8086" {
		t.Errorf("unexpected InfluxDB URL %q", cfg.InfluxDBURL)
	}
	if cfg.InfluxDBBucket != "allocation_results" {
		t.Errorf("unexpected InfluxDB bucket %q", cfg.InfluxDBBucket)
	}
	if cfg.BigQueryDataset != "allocation_results" {
		t.Errorf("unexpected BigQuery dataset %q", cfg.BigQueryDataset)
	}
}

func TestNewRecorder_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing token", cfg: &Config{InfluxDBOrg: "o"}},
		{name: "missing org", cfg: &Config{InfluxDBToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := recorder.(*noopRecorder); !ok {
				t.Errorf("expected noop recorder, got %T", recorder)
			}
		})
	}
}

func TestFlightPoint(t *testing.T) {
	slotTime := time.Date(2010, 1, 1, 10, 0, 0, 0, time.UTC)

	assigned := flightPoint(domain.AllocationResultRecord{
		Trial:  2,
		Policy: "CTOP",
		Outcome: domain.FlightOutcome{
			FlightID:    "1",
			Airline:     "B",
			SlotID:      "0",
			SlotTime:    slotTime,
			GroundDelay: 240,
			Total:       240,
		},
		Recorded: slotTime,
	})

	tags := map[string]string{}
	for _, tag := range assigned.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["run_id"] != "default" || tags["trial"] != "2" || tags["policy"] != "CTOP" {
		t.Errorf("unexpected tags %v", tags)
	}

	fields := map[string]any{}
	for _, field := range assigned.FieldList() {
		fields[field.Key] = field.Value
	}
	if fields["slot_id"] != "0" {
		t.Errorf("expected slot_id field, got %v", fields["slot_id"])
	}
	if !assigned.Time().Equal(slotTime) {
		t.Errorf("expected record time to be kept, got %v", assigned.Time())
	}

	rerouted := flightPoint(domain.AllocationResultRecord{
		Outcome: domain.FlightOutcome{FlightID: "2", Airline: "A", Rerouted: true, RerouteCost: 960},
	})
	for _, field := range rerouted.FieldList() {
		if field.Key == "slot_id" || field.Key == "slot_unix" {
			t.Errorf("rerouted flight should not carry %s", field.Key)
		}
	}
}
