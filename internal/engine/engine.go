// Package engine drives a divscout protocol session: connect, poll the
// server for events, fetch the paired data series for each event,
// evaluate ratios against the announced bounds, and confirm matches,
// until the server declares the outcome.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/divscout/client/internal/correlate"
	"github.com/divscout/client/internal/match"
	"github.com/divscout/client/internal/protocol"
)

// Transport is the duplex text-message channel the engine speaks over.
// Implementations deliver inbound frames on Frames and close that channel
// when the connection ends, however it ends.
//
// Implementations should be safe to call from the engine goroutine plus
// whatever goroutines the implementation itself runs.
type Transport interface {
	// Connect opens the channel. Must be called before Send or Frames.
	Connect(ctx context.Context) error

	// Frames returns the inbound frame channel. The channel is closed
	// when the connection ends.
	Frames() <-chan []byte

	// Send transmits one text frame. Fire and forget from the engine's
	// point of view; no response is awaited.
	Send(frame []byte) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// State of the protocol session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StatePolling
	StateTerminated
)

// Outcome is the terminal result of a session as declared by the server.
// OutcomeNone means the session ended locally (stop, cancellation, or
// transport failure) before the server called it.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "none"
	}
}

// Engine owns the protocol state machine. All protocol state (bounds,
// known events, the correlation table) is confined to the goroutine
// running Run; the only external entry point is Stop.
type Engine struct {
	transport Transport
	interval  time.Duration

	table  *correlate.Table
	bounds match.Bounds
	events map[string]struct{}

	state      State
	outcome    Outcome
	terminated bool
	ticker     *time.Ticker

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates an engine that polls for events at the given interval.
func New(t Transport, interval time.Duration) *Engine {
	return &Engine{
		transport: t,
		interval:  interval,
		table:     correlate.NewTable(),
		events:    make(map[string]struct{}),
		stop:      make(chan struct{}),
	}
}

// Stop ends the session from outside the loop. Safe to call more than
// once and after the session has already terminated.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Run connects and drives the session until a terminal message, a Stop
// call, transport failure, or context cancellation. It returns the
// server-declared outcome, or OutcomeNone with an error describing a
// local end.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	e.state = StateConnecting
	if err := e.transport.Connect(ctx); err != nil {
		e.state = StateTerminated
		e.terminated = true
		return OutcomeNone, fmt.Errorf("connect: %w", err)
	}

	// The immediate poll plus the ticker means the first cycle starts
	// without waiting a full interval.
	e.state = StatePolling
	e.sendCommand(protocol.GetEvents())
	e.ticker = time.NewTicker(e.interval)

	var runErr error
	for e.state != StateTerminated {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			e.terminate()
		case <-e.stop:
			e.terminate()
		case <-e.ticker.C:
			e.sendCommand(protocol.GetEvents())
		case frame, ok := <-e.transport.Frames():
			if !ok {
				runErr = errors.New("connection closed by peer")
				e.terminate()
				continue
			}
			e.handleFrame(frame)
		}
	}
	return e.outcome, runErr
}

// handleFrame parses and dispatches one inbound frame. Anything arriving
// after termination is a no-op, so a duplicate terminal message cannot
// run cleanup twice or flip the outcome.
func (e *Engine) handleFrame(frame []byte) {
	if e.terminated {
		return
	}
	msg, err := protocol.Parse(frame)
	if err != nil {
		log.Printf("[engine] dropping unparseable frame: %v", err)
		return
	}
	switch msg.Kind() {
	case protocol.KindEvents:
		e.handleEvents(msg)
	case protocol.KindData:
		e.handleData(msg)
	case protocol.KindLose:
		log.Printf("[engine] server declared Lose")
		e.outcome = OutcomeLose
		e.terminate()
	case protocol.KindWin:
		log.Printf("[engine] server declared Win")
		e.outcome = OutcomeWin
		e.terminate()
	default:
		// Unrecognized shape: ignore, newer servers may send more.
	}
}

// handleEvents starts a new poll cycle: bounds and the known event set
// are replaced outright, every outstanding request is invalidated, and
// one correlated data fetch goes out per announced event.
func (e *Engine) handleEvents(msg *protocol.Inbound) {
	e.bounds = match.Bounds{Min: msg.MinDiv, Max: msg.MaxDiv}
	e.events = make(map[string]struct{}, len(msg.Events))
	e.table.Reset()
	for id := range msg.Events {
		e.events[id] = struct{}{}
		reqID := e.table.NextID()
		e.table.Track(reqID, id)
		cmd := protocol.GetData(id)
		cmd.ReqID = reqID
		e.sendCommand(cmd)
	}
	log.Printf("[engine] poll cycle: %d events, bounds (%g, %g)",
		len(e.events), e.bounds.Min, e.bounds.Max)
}

// handleData routes a data response to the evaluator, once per series
// acting as primary. Responses whose request id does not resolve belong
// to a superseded poll cycle and are dropped without comment.
func (e *Engine) handleData(msg *protocol.Inbound) {
	eventID, ok := e.table.Resolve(msg.ReqID)
	if !ok {
		return
	}
	set1, set2 := msg.Data.Set1, msg.Data.Set2
	if len(set1) != len(set2) {
		log.Printf("[engine] mismatched series for event %s (%d vs %d), dropping",
			eventID, len(set1), len(set2))
		return
	}
	for _, c := range match.Evaluate(set1, set2, e.bounds, eventID, protocol.SetLabel1) {
		e.sendCommand(protocol.Confirm(c.EventID, c.Set, c.Index, c.Ratio))
	}
	for _, c := range match.Evaluate(set2, set1, e.bounds, eventID, protocol.SetLabel2) {
		e.sendCommand(protocol.Confirm(c.EventID, c.Set, c.Index, c.Ratio))
	}
}

// sendCommand stamps, serializes, and transmits one command. Commands the
// caller has not already correlated get a fresh request id. A failed send
// is logged and abandoned; the periodic re-poll resynchronizes state on
// the next cycle.
func (e *Engine) sendCommand(cmd protocol.Command) {
	if cmd.ReqID == "" {
		cmd.ReqID = e.table.NextID()
	}
	frame, err := json.Marshal(cmd)
	if err != nil {
		log.Printf("[engine] marshal %s: %v", cmd.Cmd, err)
		return
	}
	if err := e.transport.Send(frame); err != nil {
		log.Printf("[engine] send %s: %v", cmd.Cmd, err)
	}
}

// terminate runs the shutdown sequence exactly once: the ticker first so
// no tick can fire into a closed connection, then the transport.
func (e *Engine) terminate() {
	if e.terminated {
		return
	}
	e.terminated = true
	e.state = StateTerminated
	if e.ticker != nil {
		e.ticker.Stop()
	}
	if err := e.transport.Close(); err != nil {
		log.Printf("[engine] close transport: %v", err)
	}
}
