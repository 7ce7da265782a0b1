// Package queue provides the bounded FIFO of packed job descriptors that
// supervisory logic uses to serialise pending requests.
package queue

import (
	"fmt"

	"github.com/sarchlab/scanrt/hooking"
)

// HookPosQueuePush marks an accepted enqueue.
var HookPosQueuePush = &hooking.HookPos{Name: "Queue Push"}

// HookPosQueuePop marks a dequeue that returned an item.
var HookPosQueuePop = &hooking.HookPos{Name: "Queue Pop"}

// HookPosQueueDrop marks an enqueue that was refused. The item is carried in
// the hook context; Detail holds the DropReason.
var HookPosQueueDrop = &hooking.HookPos{Name: "Queue Drop"}

// TagBit marks an item as tagged (a load job in the warehouse program).
const TagBit = 0x80

// MagnitudeMask selects the value part of an item.
const MagnitudeMask = 0x7F

// Empty is returned by Dequeue when there is nothing to return. Because of
// it, zero is never a valid magnitude.
const Empty Item = 0

// Item is a packed job: a 7-bit magnitude and a tag in bit 7.
type Item byte

// Pack builds an item.
func Pack(magnitude byte, tag bool) Item {
	it := Item(magnitude & MagnitudeMask)
	if tag {
		it |= TagBit
	}

	return it
}

// Magnitude returns the value part.
func (it Item) Magnitude() byte {
	return byte(it) & MagnitudeMask
}

// Tagged returns the tag bit.
func (it Item) Tagged() bool {
	return it&TagBit != 0
}

func (it Item) String() string {
	if it.Tagged() {
		return fmt.Sprintf("%d+", it.Magnitude())
	}

	return fmt.Sprintf("%d", it.Magnitude())
}

// DropReason tells why an enqueue was refused.
type DropReason int

// Reasons for dropping an item.
const (
	DropFull DropReason = iota
	DropOutOfRange
)

func (r DropReason) String() string {
	switch r {
	case DropFull:
		return "full"
	case DropOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// Queue is a fixed-capacity FIFO. Its backing storage is allocated once; the
// length is tracked separately, so slots past the length are stale but never
// reachable through Dequeue.
type Queue struct {
	hooking.HookableBase

	name         string
	maxMagnitude byte
	slots        []Item
	length       int
}

// New creates a queue. A non-positive capacity or a magnitude limit outside
// 1..127 is a configuration fault.
func New(name string, capacity int, maxMagnitude byte) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue %s: capacity %d must be positive", name, capacity)
	}

	if maxMagnitude == 0 || maxMagnitude > MagnitudeMask {
		return nil, fmt.Errorf(
			"queue %s: maximum magnitude %d must be within 1..%d",
			name, maxMagnitude, MagnitudeMask)
	}

	return &Queue{
		name:         name,
		maxMagnitude: maxMagnitude,
		slots:        make([]Item, capacity),
	}, nil
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return q.length
}

// Cap returns the capacity.
func (q *Queue) Cap() int {
	return len(q.slots)
}

// MaxMagnitude returns the largest magnitude the queue accepts.
func (q *Queue) MaxMagnitude() byte {
	return q.maxMagnitude
}

// Full tells whether the next enqueue would be dropped for lack of room.
func (q *Queue) Full() bool {
	return q.length == len(q.slots)
}

// Enqueue appends a job. It returns false and leaves the queue unchanged when
// the queue is full or the magnitude is 0 or above the maximum. The caller is
// not told more than that; hooks see the reason.
func (q *Queue) Enqueue(magnitude byte, tag bool) bool {
	it := Pack(magnitude, tag)

	if magnitude == 0 || magnitude > q.maxMagnitude {
		q.drop(it, DropOutOfRange)
		return false
	}

	if q.Full() {
		q.drop(it, DropFull)
		return false
	}

	q.slots[q.length] = it
	q.length++

	if q.NumHooks() > 0 {
		q.InvokeHook(hooking.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePush,
			Item:   it,
		})
	}

	return true
}

// Dequeue removes and returns the front item, shifting every remaining item
// one slot forward. It returns Empty when the queue is empty.
func (q *Queue) Dequeue() Item {
	if q.length == 0 {
		return Empty
	}

	q.length--
	it := q.slots[0]

	for i := 0; i < q.length; i++ {
		q.slots[i] = q.slots[i+1]
	}

	if q.NumHooks() > 0 {
		q.InvokeHook(hooking.HookCtx{
			Domain: q,
			Pos:    HookPosQueuePop,
			Item:   it,
		})
	}

	return it
}

// Peek returns the front item without removing it, or Empty.
func (q *Queue) Peek() Item {
	if q.length == 0 {
		return Empty
	}

	return q.slots[0]
}

// Slot returns the raw content of storage slot i, stale or not. Display
// mirrors read the storage this way.
func (q *Queue) Slot(i int) Item {
	return q.slots[i]
}

// Items returns a copy of the queued items, front first.
func (q *Queue) Items() []Item {
	return append([]Item(nil), q.slots[:q.length]...)
}

// Reset forgets all queued items. The storage is left as it is.
func (q *Queue) Reset() {
	q.length = 0
}

func (q *Queue) drop(it Item, reason DropReason) {
	if q.NumHooks() == 0 {
		return
	}

	q.InvokeHook(hooking.HookCtx{
		Domain: q,
		Pos:    HookPosQueueDrop,
		Item:   it,
		Detail: reason,
	})
}
