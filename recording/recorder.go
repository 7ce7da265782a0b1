package recording

import (
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"
	"github.com/sarchlab/scanrt/queue"
	"github.com/sarchlab/scanrt/scan"
	"github.com/sarchlab/scanrt/station"
)

// Table names.
const (
	RunsTable        = "runs"
	CyclesTable      = "cycles"
	TransitionsTable = "transitions"
	QueueTable       = "queue_events"
)

// RunEntry identifies a run.
type RunEntry struct {
	ID      string
	Program string
	Start   string
}

// CycleEntry is a cycle whose outputs or mode differ from the last one
// recorded.
type CycleEntry struct {
	Run     string
	Cycle   uint64
	Running bool
	Reset   bool
	Outputs string
}

// TransitionEntry is a state change of a station.
type TransitionEntry struct {
	Run       string
	Cycle     uint64
	Station   string
	FromState int
	ToState   int
	FromName  string
	ToName    string
}

// QueueEntry is a push, pop or drop on a queue.
type QueueEntry struct {
	Run    string
	Cycle  uint64
	Queue  string
	Kind   string
	Value  int
	Reason string
}

// Recorder is a hook turning scanner and queue events into table rows.
type Recorder struct {
	w      DataRecorder
	logger *slog.Logger
	runID  string

	cycle       uint64
	haveLast    bool
	lastRunning bool
	lastOutputs string
}

// NewRecorder creates the tables in w and records the start of a run of
// program.
func NewRecorder(w DataRecorder, program string, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Recorder{
		w:      w,
		logger: logger,
		runID:  xid.New().String(),
	}

	tables := []struct {
		name   string
		sample any
	}{
		{RunsTable, RunEntry{}},
		{CyclesTable, CycleEntry{}},
		{TransitionsTable, TransitionEntry{}},
		{QueueTable, QueueEntry{}},
	}
	for _, t := range tables {
		if err := w.CreateTable(t.name, t.sample); err != nil {
			return nil, err
		}
	}

	err := w.InsertData(RunsTable, RunEntry{
		ID:      r.runID,
		Program: program,
		Start:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// RunID returns the id shared by all rows of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Attach registers the recorder with s and queues.
func (r *Recorder) Attach(s *scan.Scanner, queues ...*queue.Queue) {
	s.AcceptHook(r)
	for _, q := range queues {
		q.AcceptHook(r)
	}
}

// Func records the event described by ctx.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case scan.HookPosCycleStart:
		r.cycle = ctx.Cycle
	case scan.HookPosCycleEnd:
		r.recordCycle(ctx)
	case scan.HookPosTransition:
		r.recordTransition(ctx)
	case queue.HookPosQueuePush:
		r.recordQueue(ctx, "push")
	case queue.HookPosQueuePop:
		r.recordQueue(ctx, "pop")
	case queue.HookPosQueueDrop:
		r.recordQueue(ctx, "drop")
	}
}

func (r *Recorder) recordCycle(ctx hooking.HookCtx) {
	s, ok := ctx.Domain.(*scan.Scanner)
	if !ok {
		return
	}

	d, _ := ctx.Item.(mode.Decision)
	outputs := hex.EncodeToString(s.Image().Region(memimage.Output))

	if r.haveLast && !d.Reset &&
		d.Running() == r.lastRunning && outputs == r.lastOutputs {
		return
	}

	r.haveLast = true
	r.lastRunning = d.Running()
	r.lastOutputs = outputs

	r.insert(CyclesTable, CycleEntry{
		Run:     r.runID,
		Cycle:   ctx.Cycle,
		Running: d.Running(),
		Reset:   d.Reset,
		Outputs: outputs,
	})
}

func (r *Recorder) recordTransition(ctx hooking.HookCtx) {
	st, ok := ctx.Item.(station.Station)
	if !ok {
		return
	}

	tr, _ := ctx.Detail.(scan.Transition)

	r.insert(TransitionsTable, TransitionEntry{
		Run:       r.runID,
		Cycle:     ctx.Cycle,
		Station:   st.Name(),
		FromState: int(tr.From),
		ToState:   int(tr.To),
		FromName:  station.StateName(st, tr.From),
		ToName:    station.StateName(st, tr.To),
	})
}

func (r *Recorder) recordQueue(ctx hooking.HookCtx, kind string) {
	q, ok := ctx.Domain.(*queue.Queue)
	if !ok {
		return
	}

	it, _ := ctx.Item.(queue.Item)

	e := QueueEntry{
		Run:   r.runID,
		Cycle: r.cycle,
		Queue: q.Name(),
		Kind:  kind,
		Value: int(it),
	}
	if reason, ok := ctx.Detail.(queue.DropReason); ok {
		e.Reason = reason.String()
	}

	r.insert(QueueTable, e)
}

func (r *Recorder) insert(table string, entry any) {
	if err := r.w.InsertData(table, entry); err != nil {
		r.logger.Error("recording failed", "table", table, "error", err)
	}
}
