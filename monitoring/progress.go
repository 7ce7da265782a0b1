package monitoring

import (
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/scanrt/hooking"
	"github.com/sarchlab/scanrt/scan"
)

// A ProgressBar tracks how many scan cycles of a bounded run have finished.
// It is a hook: attach it to a scanner and it counts completed cycles.
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// Func counts one finished cycle on every cycle end.
func (b *ProgressBar) Func(ctx hooking.HookCtx) {
	if ctx.Pos != scan.HookPosCycleEnd {
		return
	}

	b.IncrementFinished(1)
}

// IncrementFinished adds a certain amount to the finished cycles.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Done tells whether all cycles have finished.
func (b *ProgressBar) Done() bool {
	b.Lock()
	defer b.Unlock()

	return b.Total > 0 && b.Finished >= b.Total
}

func newProgressBar(name string, total uint64) *ProgressBar {
	return &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}
}
