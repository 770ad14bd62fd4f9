// Package stream relays records pushed by an execution engine to a single
// consumer. A stream carries zero or more data events followed by exactly
// one terminal event (error or end); nothing is delivered after it.
//
// Pushes block until the consumer takes the event. A consumer that stops
// reading before the terminal event must call Close to release the producer.
package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/samber/mo"

	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"

	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

type EventType int

const (
	DataEvent EventType = iota
	ErrorEvent
	EndEvent
)

func (t EventType) String() string {
	switch t {
	case DataEvent:
		return "data"
	case ErrorEvent:
		return "error"
	case EndEvent:
		return "end"
	default:
		return "unknown"
	}
}

type State int32

const (
	Created State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type (
	// Event is the tagged union delivered to consumers.
	// Record is set for data events, Err for error events and
	// Payload, when present, for end events.
	Event struct {
		Type    EventType
		Record  *record_models.Record
		Err     error
		Payload mo.Option[uint64]
	}

	Handlers struct {
		OnData  func(rec *record_models.Record)
		OnError func(err error)
		OnEnd   func(payload mo.Option[uint64])
	}

	RecordStream struct {
		ctx    context.Context
		cancel context.CancelFunc
		logger slogx.SLogger

		// mtx serialises pushes so that event order is the push order.
		mtx    sync.Mutex
		state  *atomic.Int32
		err    *atomic.Pointer[error]
		events chan *Event
	}
)

// New creates a stream bound to a child of ctx. The child is cancelled once
// the stream reaches a terminal state or is closed.
func New(ctx context.Context, opts ...options.Option) *RecordStream {
	s := &RecordStream{
		logger: slogx.New(),
		state:  &atomic.Int32{},
		err:    &atomic.Pointer[error]{},
		events: make(chan *Event),
	}
	options.ApplyOptions(s, opts...)
	s.ctx, s.cancel = context.WithCancel(ctx)

	return s
}

// Context is done once the stream is terminal or closed. Producers should
// run under it so that they stop when the consumer goes away.
func (s *RecordStream) Context() context.Context {
	return s.ctx
}

// Close releases the stream. A producer blocked on a push returns, the
// events channel is closed and Err reports context.Canceled unless the
// stream had already ended. Close is safe to call more than once.
func (s *RecordStream) Close() {
	s.cancel()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state.CompareAndSwap(int32(Running), int32(Failed)) ||
		s.state.CompareAndSwap(int32(Created), int32(Failed)) {
		err := context.Canceled
		s.err.Store(&err)
		s.closeEvents()
	}
}

// Start moves the stream from Created to Running.
// It returns false if the stream was already started.
func (s *RecordStream) Start() bool {
	return s.state.CompareAndSwap(int32(Created), int32(Running))
}

func (s *RecordStream) State() State {
	return State(s.state.Load())
}

// Err returns the error the stream failed with, if any.
func (s *RecordStream) Err() error {
	if err := s.err.Load(); err != nil {
		return *err
	}

	return nil
}

// Events returns the event channel. It is closed after the terminal event.
func (s *RecordStream) Events() <-chan *Event {
	return s.events
}

// PushData delivers rec to the consumer, blocking until it is taken.
// It reports false when the stream is not running anymore.
func (s *RecordStream) PushData(rec *record_models.Record) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.State() != Running {
		return false
	}

	return s.deliver(&Event{Type: DataEvent, Record: rec})
}

// PushError fails the stream with err. Only the first terminal push wins.
func (s *RecordStream) PushError(err error) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.state.CompareAndSwap(int32(Running), int32(Failed)) {
		s.logger.Debug(s.ctx, "dropping error pushed after terminal event", "error", err)
		return false
	}

	s.err.Store(&err)
	delivered := s.deliver(&Event{Type: ErrorEvent, Err: err})
	s.closeEvents()
	s.cancel()

	return delivered
}

// PushEnd completes the stream. Only the first terminal push wins.
func (s *RecordStream) PushEnd(payload mo.Option[uint64]) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.state.CompareAndSwap(int32(Running), int32(Completed)) {
		return false
	}

	delivered := s.deliver(&Event{Type: EndEvent, Payload: payload})
	s.closeEvents()
	s.cancel()

	return delivered
}

// Consume drains the stream dispatching every event to h.
// It returns the error the stream failed with.
func (s *RecordStream) Consume(h Handlers) error {
	for ev := range s.events {
		switch ev.Type {
		case DataEvent:
			if h.OnData != nil {
				h.OnData(ev.Record)
			}
		case ErrorEvent:
			if h.OnError != nil {
				h.OnError(ev.Err)
			}
		case EndEvent:
			if h.OnEnd != nil {
				h.OnEnd(ev.Payload)
			}
		}
	}

	return s.Err()
}

// Collect drains the stream into memory.
func (s *RecordStream) Collect() ([]*record_models.Record, mo.Option[uint64], error) {
	var (
		records []*record_models.Record
		payload = mo.None[uint64]()
	)
	err := s.Consume(Handlers{
		OnData: func(rec *record_models.Record) {
			records = append(records, rec)
		},
		OnEnd: func(p mo.Option[uint64]) {
			payload = p
		},
	})

	return records, payload, err
}

// deliver must be called with mtx held.
func (s *RecordStream) deliver(ev *Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
	}

	// the consumer is gone; fail the stream unless it already is terminal.
	err := s.ctx.Err()
	if s.state.CompareAndSwap(int32(Running), int32(Failed)) {
		s.err.Store(&err)
		s.closeEvents()
	}
	s.logger.Warn(s.ctx, "record stream abandoned", "event", ev.Type.String(), "error", err)

	return false
}

func (s *RecordStream) closeEvents() {
	close(s.events)
}
