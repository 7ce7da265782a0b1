package queue

import (
	"github.com/sarchlab/scanrt/hooking"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHook struct {
	ctxs []hooking.HookCtx
}

func (h *recordingHook) Func(ctx hooking.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("Queue", func() {
	var q *Queue

	BeforeEach(func() {
		var err error
		q, err = New("Jobs", 20, 50)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject bad configurations", func() {
		_, err := New("Bad", 0, 50)
		Expect(err).To(HaveOccurred())

		_, err = New("Bad", 4, 0)
		Expect(err).To(HaveOccurred())

		_, err = New("Bad", 4, 128)
		Expect(err).To(HaveOccurred())
	})

	It("should pack a load job into bit 7", func() {
		Expect(q.Enqueue(5, true)).To(BeTrue())

		it := q.Dequeue()
		Expect(it).To(Equal(Item(0x85)))
		Expect(it.Magnitude()).To(Equal(byte(5)))
		Expect(it.Tagged()).To(BeTrue())
		Expect(it.String()).To(Equal("5+"))
	})

	It("should return items in enqueue order", func() {
		values := []byte{3, 17, 50, 1, 9}
		for i, v := range values {
			Expect(q.Enqueue(v, i%2 == 0)).To(BeTrue())
		}

		for i, v := range values {
			Expect(q.Dequeue()).To(Equal(Pack(v, i%2 == 0)))
		}

		Expect(q.Len()).To(Equal(0))
	})

	It("should keep order across a full fill and drain", func() {
		for i := 1; i <= q.Cap(); i++ {
			Expect(q.Enqueue(byte(i), false)).To(BeTrue())
		}

		for i := 1; i <= q.Cap(); i++ {
			Expect(q.Dequeue().Magnitude()).To(Equal(byte(i)))
		}
	})

	It("should drop the item past capacity without overwriting", func() {
		for i := 1; i <= q.Cap(); i++ {
			q.Enqueue(byte(i), false)
		}

		Expect(q.Full()).To(BeTrue())
		Expect(q.Enqueue(42, true)).To(BeFalse())
		Expect(q.Len()).To(Equal(q.Cap()))

		items := q.Items()
		Expect(items).To(HaveLen(20))
		Expect(items[19]).To(Equal(Item(20)))
		Expect(items).NotTo(ContainElement(Pack(42, true)))
	})

	It("should return the sentinel when empty", func() {
		Expect(q.Dequeue()).To(Equal(Empty))
		Expect(q.Peek()).To(Equal(Empty))
		Expect(q.Len()).To(Equal(0))
	})

	It("should refuse the reserved and out-of-range magnitudes", func() {
		Expect(q.Enqueue(0, false)).To(BeFalse())
		Expect(q.Enqueue(0, true)).To(BeFalse())
		Expect(q.Enqueue(51, false)).To(BeFalse())
		Expect(q.Len()).To(Equal(0))
	})

	It("should shift storage on dequeue and leave stale slots", func() {
		q.Enqueue(1, false)
		q.Enqueue(2, false)
		q.Enqueue(3, false)

		q.Dequeue()

		Expect(q.Slot(0)).To(Equal(Item(2)))
		Expect(q.Slot(1)).To(Equal(Item(3)))
		Expect(q.Slot(2)).To(Equal(Item(3)))
		Expect(q.Peek()).To(Equal(Item(2)))
	})

	It("should forget items on reset without touching storage", func() {
		q.Enqueue(7, true)
		q.Reset()

		Expect(q.Len()).To(Equal(0))
		Expect(q.Dequeue()).To(Equal(Empty))
		Expect(q.Slot(0)).To(Equal(Pack(7, true)))
	})

	It("should tell hooks about pushes, pops and drops", func() {
		h := &recordingHook{}
		q.AcceptHook(h)

		q.Enqueue(4, false)
		q.Dequeue()
		q.Dequeue()
		q.Enqueue(99, false)

		Expect(h.ctxs).To(HaveLen(3))
		Expect(h.ctxs[0].Pos).To(Equal(HookPosQueuePush))
		Expect(h.ctxs[1].Pos).To(Equal(HookPosQueuePop))
		Expect(h.ctxs[2].Pos).To(Equal(HookPosQueueDrop))
		Expect(h.ctxs[2].Detail).To(Equal(DropOutOfRange))
	})
})
