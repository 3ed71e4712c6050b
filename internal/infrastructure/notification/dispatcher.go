package notification

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/salonbook/booking-api/internal/core/service"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

type message struct {
	userEmail   string
	serviceName string
	date        string
	timeOfDay   string
}

// Dispatcher fans confirmation sends out to a fixed set of workers sharded by
// recipient address, so booking requests never block on the mail provider and
// messages to the same recipient keep their order. It satisfies the booking
// service's Notifier contract: enqueueing always succeeds, delivery errors
// are logged by the worker.
type Dispatcher struct {
	workers []chan message
	sink    service.Notifier
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through sink with numWorkers
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink service.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// SendAppointmentEmail enqueues the confirmation for asynchronous delivery.
// It never reports delivery failures to the caller.
func (d *Dispatcher) SendAppointmentEmail(_ context.Context, userEmail, serviceName, date, timeOfDay string) error {
	d.workers[d.shardIndex(userEmail)] <- message{
		userEmail:   userEmail,
		serviceName: serviceName,
		date:        date,
		timeOfDay:   timeOfDay,
	}
	return nil
}

func (d *Dispatcher) shardIndex(userEmail string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userEmail))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.SendAppointmentEmail(ctx, m.userEmail, m.serviceName, m.date, m.timeOfDay); err != nil {
				d.log.Error().Err(err).
					Str("to", m.userEmail).
					Int("worker_id", id).
					Msg("confirmation delivery failed")
			}
		}
	}
}
