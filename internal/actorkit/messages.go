package actorkit

// Started is delivered to an actor once its goroutine is running, before any
// user message.
type Started struct{}

// Stopping is delivered once, when the actor has been asked to stop. No user
// messages are delivered after it.
type Stopping struct{}

// Stopped is the final message delivered to an actor, after Stopping has
// been processed. Messages still in the mailbox at that point are not
// delivered.
type Stopped struct{}

// messageEnvelope carries a message plus the (optional) PID that sent it and
// the (optional) reply channel an Ask call is waiting on.
type messageEnvelope struct {
	sender  *PID
	message interface{}
	reply   chan interface{}
}
