package solvecache

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

// Key fingerprints a solve request. Input order does not matter; every field
// that can change the optimum does.
func Key(slots []domain.Slot, flights []domain.Flight, weighted bool) string {
	sortedSlots := append([]domain.Slot(nil), slots...)
	sort.Slice(sortedSlots, func(i, j int) bool {
		return domain.SlotBefore(sortedSlots[i], sortedSlots[j])
	})
	sortedFlights := append([]domain.Flight(nil), flights...)
	sort.Slice(sortedFlights, func(i, j int) bool {
		return sortedFlights[i].ID < sortedFlights[j].ID
	})

	h := xxhash.New()
	var buf [8]byte

	writeString := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}

	if weighted {
		writeString("weighted")
	} else {
		writeString("unweighted")
	}

	writeInt(int64(len(sortedSlots)))
	for _, s := range sortedSlots {
		writeString(string(s.ID))
		writeInt(s.Time.UnixNano())
	}

	writeInt(int64(len(sortedFlights)))
	for _, f := range sortedFlights {
		writeString(string(f.ID))
		writeString(string(f.Airline))
		writeInt(f.OTA().UnixNano())
		writeInt(int64(f.RerouteCost))
		if weighted {
			writeInt(int64(math.Float64bits(f.Weight)))
		}
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
