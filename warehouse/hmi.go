package warehouse

import (
	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/scan"
)

// HMIPeriod is the number of cycles between two refreshes of the HMI queue
// display.
const HMIPeriod = 11

// HMIMirror copies the queue into the marker area read by the HMI. The raw
// storage is mirrored at the end of every cycle, so MB30 always holds the
// queue as the stations left it. The display arrays are refreshed at the start
// of every HMIPeriod-th cycle, whatever the mode.
type HMIMirror struct {
	io    *IO
	jobs  *queue.Queue
	delay int
}

// NewHMIMirror creates the mirror of jobs.
func NewHMIMirror(io *IO, jobs *queue.Queue) *HMIMirror {
	return &HMIMirror{io: io, jobs: jobs}
}

// Func mirrors the raw queue slots once the stations have run.
func (m *HMIMirror) Func(ctx hooking.HookCtx) {
	if ctx.Pos != scan.HookPosCycleEnd {
		return
	}

	for i := range m.io.Queue {
		m.io.Queue[i].Set(byte(m.jobs.Slot(i)))
	}
}

// Housekeep runs once at the start of every cycle.
func (m *HMIMirror) Housekeep(_ uint64) {
	m.delay++
	if m.delay < HMIPeriod {
		return
	}

	m.delay = 0
	m.refresh()
}

func (m *HMIMirror) refresh() {
	for i := 0; i < MirrorSlots; i++ {
		it := m.jobs.Slot(i)
		m.io.ShowQueue[i].Set(m.jobs.Len() > i)
		m.io.QueuePositions[i].Set(it.Magnitude())
		m.io.QueueDirections[i].Set(it.Tagged())
	}
}
