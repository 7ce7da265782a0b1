// Package warehouse is the rack transfer cart: jobs typed on the HMI or
// started from the panel are queued, and the cart carries packs between the
// loading point and the 50 rack positions, one job at a time.
package warehouse

import "github.com/sarchlab/scanrt/memimage"

// Rack geometry.
const (
	Positions       = 50
	LoadingPosition = 51
	UnloadPosition  = 10
	QueueCapacity   = 20
	MirrorSlots     = 10
)

// IO holds the bound signals and HMI markers of the cart.
type IO struct {
	StartPLC            memimage.Bit
	Automatic           memimage.Bit
	LoadingPoint        memimage.Bit
	EOMElevator         memimage.Bit
	SensForkOut         memimage.Bit
	SensForkMid         memimage.Bit
	SensForkIn          memimage.Bit
	AutoElevatorSensor  memimage.Bit
	PackAtLoadingPoint  memimage.Bit
	UnloadingPointReady memimage.Bit

	Data            memimage.BitArray
	Queue           memimage.ByteArray
	ShowQueue       memimage.BitArray
	QueuePositions  memimage.ByteArray
	QueueDirections memimage.BitArray

	MainState     memimage.Byte
	UserTemp      memimage.Byte
	UserCycle     memimage.Byte
	UserLoad      memimage.Bit
	StartHMI      memimage.Bit
	UserLoadCycle memimage.Bit
	DoSync        memimage.Bit
	ScanPosition  memimage.Byte

	Output  memimage.Byte
	ForkIn  memimage.Bit
	ForkOut memimage.Bit
}

// Bind declares the cart signals. The elevator sensor is declared once; the
// symbol table refuses a second spelling that differs only in case.
func Bind(b *memimage.Binder) IO {
	return IO{
		StartPLC:            b.Bit("startPLC", "I1.4"),
		Automatic:           b.Bit("automatic", "I1.3"),
		LoadingPoint:        b.Bit("loadingPoint", "I0.0"),
		EOMElevator:         b.Bit("EOMElevator", "I0.1"),
		SensForkOut:         b.Bit("SensForkOut", "I0.2"),
		SensForkMid:         b.Bit("SensForkMid", "I0.3"),
		SensForkIn:          b.Bit("SensForkIn", "I0.4"),
		AutoElevatorSensor:  b.Bit("AutoElevatorSensor", "I0.5"),
		PackAtLoadingPoint:  b.Bit("packAtLoadingPoint", "I0.6"),
		UnloadingPointReady: b.Bit("unloadingPointReady", "I0.7"),

		Data:            b.BitArray("data", "M10.0", Positions),
		Queue:           b.ByteArray("queue", "MB30", QueueCapacity),
		ShowQueue:       b.BitArray("showQueue", "M50.0", MirrorSlots),
		QueuePositions:  b.ByteArray("queuePositions", "MB60", MirrorSlots),
		QueueDirections: b.BitArray("queueDirections", "M70.0", MirrorSlots),

		MainState:     b.Byte("mainState", "MB100"),
		UserTemp:      b.Byte("userTemp", "MB102"),
		UserCycle:     b.Byte("userCycle", "MB104"),
		UserLoad:      b.Bit("userLoad", "M106.0"),
		StartHMI:      b.Bit("startHMI", "M106.1"),
		UserLoadCycle: b.Bit("userLoadCycle", "M106.2"),
		DoSync:        b.Bit("doSync", "M106.3"),
		ScanPosition:  b.Byte("scanPosition", "MB110"),

		Output:  b.Byte("output", "QB0"),
		ForkIn:  b.Bit("forkIn", "Q0.7"),
		ForkOut: b.Bit("forkOut", "Q0.6"),
	}
}

// SetPosition drives the elevator to position p, keeping the fork bits.
func (io *IO) SetPosition(p byte) {
	io.Output.Set(p&0x3F | io.Output.Value()&0xC0)
}

// Occupied tells whether rack position p (1-based) holds a pack. Positions
// outside the rack are never occupied.
func (io *IO) Occupied(p byte) bool {
	if p < 1 || p > Positions {
		return false
	}

	return io.Data[p-1].Value()
}

func (io *IO) setOccupied(p byte, occupied bool) {
	if p < 1 || p > Positions {
		return
	}

	io.Data[p-1].Set(occupied)
}
