package actorkit

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

const defaultMailboxSize = 1024

// process is the running instance of an actor: its state, its mailbox, and
// the goroutine draining it.
type process struct {
	engine  *Engine
	pid     *PID
	actor   Actor
	mailbox chan *messageEnvelope
	stopCh  chan struct{}
	stopped atomic.Bool
	props   *Props
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, defaultMailboxSize),
		stopCh:  make(chan struct{}),
	}
}

func (p *process) sendMessage(message interface{}, sender *PID, reply chan interface{}) {
	if p.stopped.Load() {
		if _, isStopping := message.(Stopping); !isStopping {
			return
		}
	}
	envelope := &messageEnvelope{sender: sender, message: message, reply: reply}
	select {
	case p.mailbox <- envelope:
	default:
		if p.engine.logger != nil {
			p.engine.logger(fmt.Sprintf("actorkit: mailbox full for %s, dropping %T", p.pid, message))
		}
	}
}

func (p *process) run() {
	var stoppingInvoked bool

	defer func() {
		p.stopped.Store(true)
		defer p.engine.remove(p.pid)
		if p.actor != nil {
			p.invokeReceive(Stopped{}, nil, nil)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			p.logPanic(r)
			if p.stopped.CompareAndSwap(false, true) {
				closeOnce(p.stopCh)
				if p.actor != nil && !stoppingInvoked {
					p.invokeReceive(Stopping{}, nil, nil)
					stoppingInvoked = true
				}
			}
		}
	}()

	p.actor = p.props.produce()
	if p.actor == nil {
		panic(fmt.Sprintf("actorkit: producer for %s returned a nil actor", p.pid))
	}
	p.invokeReceive(Started{}, nil, nil)

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) && !stoppingInvoked {
				p.invokeReceive(Stopping{}, nil, nil)
				stoppingInvoked = true
			}
			return

		case envelope := <-p.mailbox:
			if _, isStopping := envelope.message.(Stopping); p.stopped.Load() && !isStopping {
				continue
			}
			if _, isStopping := envelope.message.(Stopping); isStopping {
				if p.stopped.CompareAndSwap(false, true) {
					if !stoppingInvoked {
						p.invokeReceive(envelope.message, envelope.sender, envelope.reply)
						stoppingInvoked = true
					}
					closeOnce(p.stopCh)
				}
				continue
			}
			p.invokeReceive(envelope.message, envelope.sender, envelope.reply)
		}
	}
}

func (p *process) invokeReceive(msg interface{}, sender *PID, reply chan interface{}) {
	ctx := &context{engine: p.engine, self: p.pid, sender: sender, message: msg, reply: reply}
	defer func() {
		if r := recover(); r != nil {
			p.logPanic(r)
		}
	}()
	p.actor.Receive(ctx)
}

func (p *process) logPanic(r interface{}) {
	if p.engine.logger != nil {
		p.engine.logger(fmt.Sprintf("actorkit: actor %s panicked: %v\n%s", p.pid, r, string(debug.Stack())))
	}
}

func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
