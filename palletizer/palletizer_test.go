package palletizer

import (
	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/mode"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Palletizer", func() {
	var (
		img  *memimage.Image
		prog *Program
		io   *IO
	)

	scan := func() {
		prog.Scanner.Scan()
	}

	// hold asserts a sensor for exactly one cycle.
	hold := func(b memimage.Bit) {
		b.Set(true)
		scan()
		b.Set(false)
	}

	pulseMaxBox := func() {
		hold(io.MaxBoxSensor)
		scan()
	}

	pushBox := func() {
		hold(io.ElevatorExitSensor)
		hold(io.AdvanceElevatorSensor)
	}

	bringUpPallet := func() {
		hold(io.ElevatorLowSensor)
		io.PalletDetector.Set(true)
		scan()
		hold(io.ElevatorHighSensor)
		Expect(prog.Lift.State()).To(Equal(LiftWaitBoxes))
	}

	stackLayer := func() {
		Expect(prog.Lift.State()).To(Equal(LiftWaitBoxes))

		io.MaxBoxSensor.Set(true)
		scan()
		io.MaxBoxSensor.Set(false)
		scan()
		io.MaxBoxSensor.Set(true)
		scan()
		io.MaxBoxSensor.Set(false)
		Expect(prog.Lift.State()).To(Equal(LiftAdvanceMat))

		hold(io.TableOutSensor)
		Expect(prog.Lift.State()).To(Equal(LiftBlockBoxes))

		hold(io.BoxBlocked)
		Expect(prog.Lift.State()).To(Equal(LiftRetractMat))
		Expect(prog.Feeder.WaitingBoxes()).To(Equal(0))

		hold(io.TableInSensor)
		Expect(prog.Lift.State()).To(Equal(LiftDescend))
	}

	BeforeEach(func() {
		var err error
		img, err = memimage.New(memimage.DefaultLayout)
		Expect(err).NotTo(HaveOccurred())

		prog, err = New(img, nil)
		Expect(err).NotTo(HaveOccurred())
		io = prog.IO

		io.Stop.Set(true)
		io.Start.Set(true)
	})

	It("should declare every signal once", func() {
		Expect(prog.Symbols.Names()).To(HaveLen(27))
		Expect(prog.Symbols.MustLookup("PalletDetector").String()).To(Equal("I1.2"))
	})

	It("should keep all actuators off while stopped", func() {
		io.Start.Set(false)
		io.Stop.Set(false)
		io.ElevatorLowSensor.Set(true)

		for i := 0; i < 4; i++ {
			scan()
			Expect(io.Output.Value()).To(Equal(byte(0)))
			Expect(io.StopLED.Value()).To(BeTrue())
			Expect(io.PowerLED.Value()).To(BeFalse())
		}

		Expect(prog.Lift.State()).To(Equal(LiftLower))
	})

	It("should light the power lamp and drive the first stages when running", func() {
		scan()

		Expect(prog.Scanner.Mode()).To(Equal(mode.Running))
		Expect(io.PowerLED.Value()).To(BeTrue())
		Expect(io.BoxElevator.Value()).To(BeTrue())
		Expect(io.PalletsElevatorDown.Value()).To(BeTrue())
		Expect(io.PushBox.Value()).To(BeFalse())
	})

	It("should count three layers and then evacuate the pallet", func() {
		bringUpPallet()

		stackLayer()
		Expect(prog.Lift.Layers()).To(Equal(1))
		hold(io.ElevatorHighLowSensor)
		Expect(prog.Lift.State()).To(Equal(LiftDescend),
			"one layer descends to the high-mid sensor only")
		hold(io.ElevatorHighMidSensor)
		Expect(prog.Lift.State()).To(Equal(LiftWaitBoxes))

		stackLayer()
		Expect(prog.Lift.Layers()).To(Equal(2))
		hold(io.ElevatorLowSensor)
		Expect(prog.Lift.State()).To(Equal(LiftDescend))
		hold(io.ElevatorHighLowSensor)
		Expect(prog.Lift.State()).To(Equal(LiftWaitBoxes))

		stackLayer()
		Expect(prog.Lift.Layers()).To(Equal(3))
		hold(io.ElevatorHighMidSensor)
		Expect(prog.Lift.State()).To(Equal(LiftDescend))
		hold(io.ElevatorLowSensor)
		Expect(prog.Lift.State()).To(Equal(LiftEvacuate))
		Expect(prog.Lift.Layers()).To(Equal(0))

		scan()
		Expect(io.ConveyPallets.Value()).To(BeTrue())
		Expect(prog.Lift.State()).To(Equal(LiftEvacuate))

		io.PalletDetector.Set(false)
		scan()
		Expect(prog.Lift.State()).To(Equal(LiftLoadPallet))
	})

	It("should idle the feeder after two boxes until the lift rearms it", func() {
		pushBox()
		pushBox()
		Expect(prog.Feeder.PushedBoxes()).To(Equal(2))

		scan()
		Expect(io.BoxElevator.Value()).To(BeFalse())

		prog.Feeder.Rearm()
		scan()
		Expect(io.BoxElevator.Value()).To(BeTrue())
	})

	It("should see the lift's rearm one cycle late", func() {
		bringUpPallet()
		pushBox()
		pushBox()

		pulseMaxBox()
		io.MaxBoxSensor.Set(true)
		scan()
		io.MaxBoxSensor.Set(false)
		hold(io.TableOutSensor)

		io.BoxBlocked.Set(true)
		scan()
		io.BoxBlocked.Set(false)
		Expect(prog.Lift.State()).To(Equal(LiftRetractMat))
		Expect(io.BoxElevator.Value()).To(BeFalse(),
			"the feeder ran before the lift in this cycle")

		scan()
		Expect(io.BoxElevator.Value()).To(BeTrue())
	})

	It("should return every station to its initial state on reset", func() {
		bringUpPallet()
		stackLayer()
		pulseMaxBox()
		Expect(prog.Lift.Layers()).To(Equal(1))

		io.Reset.Set(true)
		scan()

		Expect(prog.Lift.State()).To(Equal(LiftLower))
		Expect(prog.Lift.Layers()).To(Equal(0))
		Expect(prog.Feeder.State()).To(Equal(FeederLift))
		Expect(prog.Feeder.WaitingBoxes()).To(Equal(0))
		Expect(io.ResetLED.Value()).To(BeTrue())
		Expect(io.Output.Value()).To(Equal(byte(0)))
	})

	It("should recover from an unknown lift state", func() {
		prog.Lift.Goto(42)
		scan()

		Expect(prog.Lift.State()).To(Equal(LiftLower))
	})

	It("should start the pallet over on an impossible layer count", func() {
		prog.Lift.Goto(LiftDescend)
		prog.Lift.layers = LayersPerPallet + 1
		io.ElevatorLowSensor.Set(true)

		scan()

		Expect(prog.Lift.State()).To(Equal(LiftLower))
		Expect(prog.Lift.Layers()).To(Equal(0))
	})
})
