package memimage

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Image", func() {
	var img *Image

	BeforeEach(func() {
		var err error
		img, err = New(Layout{Inputs: 2, Outputs: 2, Markers: 4})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject an empty region", func() {
		_, err := New(Layout{Inputs: 1, Outputs: 0, Markers: 1})
		Expect(err).To(MatchError(ErrLayout))
	})

	It("should make bit writes visible to byte reads at once", func() {
		Expect(img.WriteBit(MustParseAddr("Q0.7"), true)).To(Succeed())
		Expect(img.WriteBit(MustParseAddr("Q0.0"), true)).To(Succeed())

		v, err := img.ReadByte(MustParseAddr("QB0"))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(byte(0x81)))

		Expect(img.WriteBit(MustParseAddr("Q0.7"), false)).To(Succeed())
		v, _ = img.ReadByte(MustParseAddr("QB0"))
		Expect(v).To(Equal(byte(0x01)))
	})

	It("should make byte writes visible to bit reads at once", func() {
		Expect(img.WriteByte(MustParseAddr("MB3"), 0x04)).To(Succeed())

		on, err := img.ReadBit(MustParseAddr("M3.2"))
		Expect(err).NotTo(HaveOccurred())
		Expect(on).To(BeTrue())
	})

	It("should fail out-of-range accesses with an AddressError", func() {
		_, err := img.ReadBit(MustParseAddr("I2.0"))

		var addrErr *AddressError
		Expect(errors.As(err, &addrErr)).To(BeTrue())
		Expect(addrErr.Addr).To(Equal(BitAddr(Input, 2, 0)))
		Expect(err).To(MatchError(ErrAddress))

		Expect(img.WriteByte(MustParseAddr("QB9"), 1)).To(MatchError(ErrAddress))
	})

	It("should refuse bit access through a byte address", func() {
		_, err := img.ReadBit(MustParseAddr("IB0"))
		Expect(err).To(MatchError(ErrAddress))
	})

	It("should load and copy whole regions", func() {
		Expect(img.Load(Input, []byte{0x10, 0x01})).To(Succeed())

		in := img.Region(Input)
		Expect(in).To(Equal([]byte{0x10, 0x01}))

		in[0] = 0
		Expect(img.Region(Input)[0]).To(Equal(byte(0x10)))

		Expect(img.Load(Input, []byte{1, 2, 3})).To(MatchError(ErrAddress))

		img.ClearRegion(Input)
		Expect(img.Region(Input)).To(Equal([]byte{0, 0}))
	})

	Context("handles", func() {
		It("should read and write through a bit handle", func() {
			b := img.MustBit(MustParseAddr("M1.4"))
			b.Set(true)

			Expect(b.Value()).To(BeTrue())
			v, _ := img.ReadByte(MustParseAddr("MB1"))
			Expect(v).To(Equal(byte(0x10)))
		})

		It("should panic when a handle is bound out of range", func() {
			Expect(func() { img.MustBit(MustParseAddr("M9.0")) }).To(Panic())
			Expect(func() { img.MustByte(MustParseAddr("MB4")) }).To(Panic())
		})

		It("should bind bit arrays across byte boundaries", func() {
			bits, err := img.BitArray(MustParseAddr("M0.0"), 10)
			Expect(err).NotTo(HaveOccurred())

			bits[9].Set(true)
			Expect(bits[9].Addr()).To(Equal(BitAddr(Marker, 1, 1)))

			v, _ := img.ReadByte(MustParseAddr("MB1"))
			Expect(v).To(Equal(byte(0x02)))
		})

		It("should refuse an array that runs off the region", func() {
			_, err := img.BitArray(MustParseAddr("M3.0"), 9)
			Expect(err).To(MatchError(ErrAddress))

			_, err = img.ByteArray(MustParseAddr("MB2"), 3)
			Expect(err).To(MatchError(ErrAddress))
		})
	})
})
