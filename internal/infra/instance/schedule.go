package instance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// ScheduleRow is one flight of a schedule: departure (DT) and controlled arrival
// (FCA) in minutes from the base time.
type ScheduleRow struct {
	ID      string
	Airline string
	DT      float64
	FCA     float64
}

// CostModel samples the per-flight parameters a schedule does not carry.
type CostModel struct {
	RerouteCost Triangular // seconds
	Weight      Triangular
}

// ReadScheduleFile reads a CSV with a header containing fid, airline, dt and fca.
func ReadScheduleFile(path string) ([]ScheduleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSchedule(f)
}

func ReadSchedule(r io.Reader) ([]ScheduleRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidSchedule, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"fid", "airline", "dt", "fca"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidSchedule, required)
		}
	}

	var rows []ScheduleRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSchedule, line, err)
		}

		dt, err := strconv.ParseFloat(rec[cols["dt"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d dt: %v", ErrInvalidSchedule, line, err)
		}
		fca, err := strconv.ParseFloat(rec[cols["fca"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d fca: %v", ErrInvalidSchedule, line, err)
		}

		rows = append(rows, ScheduleRow{
			ID:      rec[cols["fid"]],
			Airline: rec[cols["airline"]],
			DT:      dt,
			FCA:     fca,
		})
	}
	return rows, nil
}

// BuildFlights turns schedule rows into flights, sampling reroute cost and
// weight for each row in order.
func BuildFlights(rows []ScheduleRow, baseTime time.Time, model CostModel, sampler *Sampler) []domain.Flight {
	flights := make([]domain.Flight, 0, len(rows))
	for _, row := range rows {
		departure := baseTime.Add(minutes(row.DT))
		duration := minutes(row.FCA) - minutes(row.DT)
		rtcSeconds := sampler.Triangular(model.RerouteCost)
		weight := sampler.Triangular(model.Weight)

		flights = append(flights, domain.Flight{
			ID:             domain.FlightID(row.ID),
			Airline:        domain.AirlineID(row.Airline),
			DepartureTime:  departure,
			FlightDuration: duration,
			RerouteCost:    time.Duration(math.Round(rtcSeconds * float64(time.Second))),
			Weight:         weight,
		})
	}
	return flights
}

func minutes(m float64) time.Duration {
	return time.Duration(math.Round(m * float64(time.Minute)))
}
