package driver

import (
	"github.com/sarchlab/scanrt/memimage"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemoryDriver", func() {
	var (
		img *memimage.Image
		d   *MemoryDriver
	)

	BeforeEach(func() {
		layout := memimage.Layout{Inputs: 2, Outputs: 2, Markers: 1}

		var err error
		img, err = memimage.New(layout)
		Expect(err).NotTo(HaveOccurred())

		d = NewMemoryDriver(layout)
	})

	It("should only show inputs at the start of a cycle", func() {
		Expect(d.SetInput(memimage.MustParseAddr("I1.2"), true)).To(Succeed())
		Expect(img.ReadBit(memimage.MustParseAddr("I1.2"))).To(BeFalse())

		Expect(d.ReadInputs(img)).To(Succeed())
		Expect(img.ReadBit(memimage.MustParseAddr("I1.2"))).To(BeTrue())

		Expect(d.SetInputByte(memimage.MustParseAddr("IB0"), 0x81)).To(Succeed())
		Expect(d.ReadInputs(img)).To(Succeed())
		Expect(img.ReadByte(memimage.MustParseAddr("IB0"))).To(Equal(byte(0x81)))
	})

	It("should publish outputs on commit", func() {
		q := memimage.MustParseAddr("Q1.7")
		Expect(img.WriteBit(q, true)).To(Succeed())

		Expect(d.Output(q)).To(BeFalse())
		Expect(d.CommitOutputs(img)).To(Succeed())
		Expect(d.Output(q)).To(BeTrue())
		Expect(d.Outputs()).To(Equal([]byte{0, 0x80}))
		Expect(d.Commits()).To(Equal(uint64(1)))
	})

	It("should refuse addresses it does not hold", func() {
		Expect(d.SetInput(memimage.MustParseAddr("I2.0"), true)).
			To(MatchError(memimage.ErrAddress))
		Expect(d.SetInput(memimage.MustParseAddr("Q0.0"), true)).
			To(MatchError(memimage.ErrAddress))
		Expect(d.SetInput(memimage.MustParseAddr("IB0"), true)).
			To(MatchError(memimage.ErrAddress))
		_, err := d.Output(memimage.MustParseAddr("I0.0"))
		Expect(err).To(MatchError(memimage.ErrAddress))
	})
})
