package instance

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var ErrInvalidInstanceFile = errors.New("invalid instance file")

type fileRecord struct {
	Slots   []slotRecord   `yaml:"slots"`
	Flights []flightRecord `yaml:"flights"`
}

type slotRecord struct {
	ID   string `yaml:"id"`
	Time string `yaml:"time"`
}

type flightRecord struct {
	ID             string  `yaml:"id"`
	Airline        string  `yaml:"airline"`
	DepartureTime  string  `yaml:"departure_time"`
	FlightDuration string  `yaml:"flight_duration"`
	RerouteCost    string  `yaml:"reroute_cost"`
	Weight         float64 `yaml:"weight"`
}

// LoadFile reads a YAML (or JSON) instance file. Times are RFC3339 and
// durations use Go duration syntax ("56m", "1h30m").
func LoadFile(path string) (Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return Instance{}, err
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (Instance, error) {
	var rec fileRecord
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return Instance{}, fmt.Errorf("%w: %v", ErrInvalidInstanceFile, err)
	}

	in := Instance{
		Slots:   make([]domain.Slot, 0, len(rec.Slots)),
		Flights: make([]domain.Flight, 0, len(rec.Flights)),
	}

	for i, s := range rec.Slots {
		t, err := time.Parse(time.RFC3339, s.Time)
		if err != nil {
			return Instance{}, fmt.Errorf("%w: slot %d time: %v", ErrInvalidInstanceFile, i, err)
		}
		in.Slots = append(in.Slots, domain.Slot{ID: domain.SlotID(s.ID), Time: t})
	}

	for i, fr := range rec.Flights {
		flight, err := fr.toDomain()
		if err != nil {
			return Instance{}, fmt.Errorf("%w: flight %d: %v", ErrInvalidInstanceFile, i, err)
		}
		in.Flights = append(in.Flights, flight)
	}

	if err := in.Validate(); err != nil {
		return Instance{}, err
	}
	return in, nil
}

func (fr flightRecord) toDomain() (domain.Flight, error) {
	dep, err := time.Parse(time.RFC3339, fr.DepartureTime)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("departure_time: %w", err)
	}
	duration, err := time.ParseDuration(fr.FlightDuration)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("flight_duration: %w", err)
	}
	rtc, err := time.ParseDuration(fr.RerouteCost)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("reroute_cost: %w", err)
	}
	return domain.Flight{
		ID:             domain.FlightID(fr.ID),
		Airline:        domain.AirlineID(fr.Airline),
		DepartureTime:  dep,
		FlightDuration: duration,
		RerouteCost:    rtc,
		Weight:         fr.Weight,
	}, nil
}

// Encode writes the instance in the format LoadFile reads.
func Encode(w io.Writer, in Instance) error {
	rec := fileRecord{
		Slots:   make([]slotRecord, 0, len(in.Slots)),
		Flights: make([]flightRecord, 0, len(in.Flights)),
	}
	for _, s := range in.Slots {
		rec.Slots = append(rec.Slots, slotRecord{ID: string(s.ID), Time: s.Time.UTC().Format(time.RFC3339)})
	}
	for _, f := range in.Flights {
		rec.Flights = append(rec.Flights, flightRecord{
			ID:             string(f.ID),
			Airline:        string(f.Airline),
			DepartureTime:  f.DepartureTime.UTC().Format(time.RFC3339),
			FlightDuration: f.FlightDuration.String(),
			RerouteCost:    f.RerouteCost.String(),
			Weight:         f.Weight,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}
