package resultrecorder

import (
	"os"
)

type Config struct {
	Disabled bool
	// SkipFlights records only policy summaries.
	SkipFlights bool

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	BigQueryProjectID    string
	BigQueryDataset      string
	BigQueryFlightTable  string
	BigQuerySummaryTable string
}

func LoadConfig() *Config {
	cfg := &Config{
		Disabled:    os.Getenv("ALLOCATION_RESULTS_DISABLED") == "true",
		SkipFlights: os.Getenv("ALLOCATION_RESULTS_SKIP_FLIGHTS") == "true",

		InfluxDBURL:    getEnvOrDefault("INFLUXDB_URL", "http://localhost:8086"),
		InfluxDBToken:  os.Getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:    os.Getenv("INFLUXDB_ORG"),
		InfluxDBBucket: getEnvOrDefault("INFLUXDB_BUCKET", "allocation_results"),

		BigQueryProjectID:    getEnvOrDefault("BIGQUERY_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		BigQueryDataset:      getEnvOrDefault("BIGQUERY_DATASET", "allocation_results"),
		BigQueryFlightTable:  getEnvOrDefault("BIGQUERY_FLIGHT_TABLE", "flight_results"),
		BigQuerySummaryTable: getEnvOrDefault("BIGQUERY_SUMMARY_TABLE", "policy_summaries"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
