package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Observer receives dispatcher events for metrics. Any method may be a no-op.
type Observer interface {
	Depth(worker string, n int)
	Result(ok bool)
	Dropped()
}

type nopObserver struct{}

func (nopObserver) Depth(string, int) {}
func (nopObserver) Result(bool)       {}
func (nopObserver) Dropped()          {}

// Dispatcher routes booking status changes to a fixed set of workers using
// hashing on the booking id, so changes to one booking are delivered in order.
type Dispatcher struct {
	workers   []chan ports.StatusChange
	processor ports.StatusProcessor
	observer  Observer
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.StatusProcessor, observer Observer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if observer == nil {
		observer = nopObserver{}
	}
	d := &Dispatcher{
		workers:   make([]chan ports.StatusChange, numWorkers),
		processor: processor,
		observer:  observer,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StatusChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Stop drains the queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the queues and waits for workers to finish what is buffered.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue hands change to the worker responsible for its booking. A full
// queue drops the change rather than blocking the request.
func (d *Dispatcher) Enqueue(change ports.StatusChange) {
	i := d.shardIndex(change.BookingID)
	select {
	case d.workers[i] <- change:
		d.observer.Depth(strconv.Itoa(i), len(d.workers[i]))
	default:
		d.observer.Dropped()
		d.log.Warn().
			Str("booking_id", change.BookingID).
			Int("worker_id", i).
			Msg("status queue full, change dropped")
	}
}

// shardIndex maps a booking id deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.StatusChange) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			d.observer.Depth(strconv.Itoa(id), len(ch))
			if err := d.processor.Process(ctx, change); err != nil {
				d.observer.Result(false)
				d.log.Error().Err(err).
					Str("booking_id", change.BookingID).
					Int("worker_id", id).
					Msg("status delivery failed")
				continue
			}
			d.observer.Result(true)
		}
	}
}
