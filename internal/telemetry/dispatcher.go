// Package telemetry fans score snapshots out to the live outputs: the
// scoreboard endpoint, websocket clients, a message broker and a cache.
// Publishing never blocks the scoring flow and sink failures are only logged.
package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
)

// DefaultBufferSize is the number of snapshots queued before new ones are dropped
const DefaultBufferSize = 64

// DefaultSendTimeout bounds a single sink delivery
const DefaultSendTimeout = 5 * time.Second

// Sink receives snapshots
type Sink interface {
	Name() string
	Send(ctx context.Context, s models.Snapshot) error
}

// Publisher accepts snapshots for asynchronous delivery
type Publisher interface {
	Publish(s models.Snapshot)
}

// Dispatcher delivers published snapshots to every sink in order, from a
// single background goroutine.
type Dispatcher struct {
	log     logger.Logger
	sinks   []Sink
	events  chan models.Snapshot
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher; call Start to begin delivery
func NewDispatcher(log logger.Logger, bufferSize int, sinks ...Sink) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Dispatcher{
		log:     log,
		sinks:   sinks,
		events:  make(chan models.Snapshot, bufferSize),
		timeout: DefaultSendTimeout,
		done:    make(chan struct{}),
	}
}

// SetSendTimeout changes the per-sink delivery timeout
func (d *Dispatcher) SetSendTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// AddSink registers another sink. Call before Start.
func (d *Dispatcher) AddSink(s Sink) {
	d.sinks = append(d.sinks, s)
}

// Sinks returns the registered sink names
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dropped returns how many snapshots were discarded on a full queue
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Start begins the delivery loop in a goroutine
func (d *Dispatcher) Start() {
	go d.run()
}

// Publish queues a snapshot; it drops the snapshot when the queue is full
// or the dispatcher is closed.
func (d *Dispatcher) Publish(s models.Snapshot) {
	if s.At.IsZero() {
		s.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.events <- s:
	default:
		d.dropped.Add(1)
		d.log.Warn("Telemetry queue full, snapshot dropped", "event", s.Event, "program_id", s.ProgramID)
	}
}

// Close stops accepting snapshots, delivers the queued ones and waits
// for the loop to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for s := range d.events {
		d.deliver(s)
	}
}

func (d *Dispatcher) deliver(s models.Snapshot) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := sink.Send(ctx, s)
		cancel()
		if err != nil {
			d.log.Warn("Telemetry delivery failed", "sink", sink.Name(), "event", s.Event, "error", err)
			continue
		}
		d.log.Debug("Telemetry delivered", "sink", sink.Name(), "event", s.Event)
	}
}

// Ensure Dispatcher implements Publisher
var _ Publisher = (*Dispatcher)(nil)
