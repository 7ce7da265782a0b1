package scan

import (
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/station"
)

// StationSnapshot is the externally visible part of a station.
type StationSnapshot struct {
	Name      string `json:"name"`
	State     int    `json:"state"`
	StateName string `json:"state_name"`
}

// Snapshot is a copy of the scanner state taken between cycles.
type Snapshot struct {
	Cycle    uint64            `json:"cycle"`
	Mode     string            `json:"mode"`
	Stations []StationSnapshot `json:"stations"`
	Inputs   []byte            `json:"inputs"`
	Outputs  []byte            `json:"outputs"`
}

// Snapshot copies the current state. Call it between cycles only.
func (s *Scanner) Snapshot() Snapshot {
	snap := Snapshot{
		Cycle:   s.cycle.Number,
		Mode:    s.mode.Mode().String(),
		Inputs:  s.image.Region(memimage.Input),
		Outputs: s.image.Region(memimage.Output),
	}

	for _, st := range s.stations {
		snap.Stations = append(snap.Stations, StationSnapshot{
			Name:      st.Name(),
			State:     int(st.State()),
			StateName: station.StateName(st, st.State()),
		})
	}

	return snap
}
