package actorkit

// Context is handed to Actor.Receive for the duration of a single message.
type Context interface {
	// Engine returns the engine running this actor, for Spawn/Send/Ask/Stop.
	Engine() *Engine
	// Self returns this actor's own PID.
	Self() *PID
	// Sender returns the PID that sent the current message, or nil if it
	// originated outside the actor system (e.g. a scheduler tick).
	Sender() *PID
	// Message returns the message being processed.
	Message() interface{}
	// Reply sends a value back to whoever is blocked in Ask for this
	// message. It is a no-op if the message didn't arrive via Ask.
	Reply(value interface{})
}

type context struct {
	engine  *Engine
	self    *PID
	sender  *PID
	message interface{}
	reply   chan interface{}
}

func (c *context) Engine() *Engine        { return c.engine }
func (c *context) Self() *PID             { return c.self }
func (c *context) Sender() *PID           { return c.sender }
func (c *context) Message() interface{}   { return c.message }

func (c *context) Reply(value interface{}) {
	if c.reply == nil {
		return
	}
	select {
	case c.reply <- value:
	default:
	}
}
