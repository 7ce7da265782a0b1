package station

// Flag is a handshake boolean owned by one producer station. The producer
// keeps the *Flag; consumers receive it as an edge.Signal and can only read
// it. Requests towards the producer go through the producer's own methods.
type Flag struct {
	owner string
	name  string
	value bool
}

// NewFlag creates a cleared flag.
func NewFlag(owner, name string) *Flag {
	return &Flag{owner: owner, name: name}
}

// Owner returns the name of the producing station.
func (f *Flag) Owner() string {
	return f.owner
}

// Name returns the flag name.
func (f *Flag) Name() string {
	return f.name
}

// Value reads the flag.
func (f *Flag) Value() bool {
	return f.value
}

// Set writes the flag.
func (f *Flag) Set(v bool) {
	f.value = v
}

func (f *Flag) String() string {
	return f.owner + "." + f.name
}
