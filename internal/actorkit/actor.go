package actorkit

// Actor processes messages delivered to its mailbox, one at a time, in the
// order they were sent.
type Actor interface {
	Receive(ctx Context)
}

// Producer constructs a fresh Actor instance. Engine.Spawn calls it exactly
// once, inside the actor's own goroutine.
type Producer func() Actor

// Props configures an actor to be spawned.
type Props struct {
	produce Producer
}

// NewProps wraps a Producer for Engine.Spawn.
func NewProps(produce Producer) *Props {
	if produce == nil {
		panic("actorkit: producer cannot be nil")
	}
	return &Props{produce: produce}
}
