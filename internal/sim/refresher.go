package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"pricetrack/internal/obs"
)

// Refresher runs manual price refreshes in the background. Scrape requests
// enqueue a product id; workers fabricate a fresh observation for it, since
// the simulator talks to no real platform.
type Refresher struct {
	st      *State
	workers int

	mu      sync.Mutex
	backlog []int64
	notify  chan struct{}
	out     chan int64

	shuttingDown atomic.Bool
	enqueued     atomic.Uint64
	processed    atomic.Uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher builds a Refresher over the given state.
func NewRefresher(st *State, workers, buffer int) *Refresher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Refresher{
		st:      st,
		workers: workers,
		notify:  make(chan struct{}, 1),
		out:     make(chan int64, buffer),
	}
}

// Start launches the broker and worker goroutines.
func (f *Refresher) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.wg.Add(1)
	go f.broker(ctx)
	for i := 0; i < f.workers; i++ {
		f.wg.Add(1)
		go f.worker(ctx)
	}
}

// Stop cancels background routines and waits for them to exit.
func (f *Refresher) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
}

// broker moves backlog items to the output channel.
func (f *Refresher) broker(ctx context.Context) {
	defer f.wg.Done()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		f.flushOnce()
		select {
		case <-ctx.Done():
			return
		case <-f.notify:
		case <-ticker.C:
		}
	}
}

func (f *Refresher) flushOnce() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.backlog) > 0 && len(f.out) < cap(f.out) {
		id := f.backlog[0]
		f.backlog = f.backlog[1:]
		f.out <- id
	}
}

// Enqueue schedules a refresh for the product. Returns false once intake has
// been closed for shutdown.
func (f *Refresher) Enqueue(productID int64) bool {
	if f.shuttingDown.Load() {
		return false
	}
	f.enqueued.Add(1)
	f.mu.Lock()
	f.backlog = append(f.backlog, productID)
	f.mu.Unlock()
	select {
	case f.notify <- struct{}{}:
	default:
	}
	return true
}

func (f *Refresher) worker(ctx context.Context) {
	defer f.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-f.out:
			f.refresh(id)
			f.processed.Add(1)
		}
	}
}

// refresh fabricates one observation around the product's current price.
func (f *Refresher) refresh(productID int64) {
	p, ok := f.st.GetProduct(productID)
	if !ok {
		return
	}
	base := 20 + rand.Float64()*480
	if p.CurrentPrice != nil {
		base = *p.CurrentPrice
	}
	// within ±10% of the last observation
	value := base * (0.9 + rand.Float64()*0.2)
	value = float64(int(value*100)) / 100
	if value <= 0 {
		value = 0.01
	}
	isSale := p.OriginalPrice != nil && value < *p.OriginalPrice
	if _, ok := f.st.AppendPrice(productID, value, isSale); ok {
		obs.Logger.Info("price_refreshed", "product_id", productID, "price", value)
	}
}

// CloseIntake disallows future enqueues.
func (f *Refresher) CloseIntake() { f.shuttingDown.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (f *Refresher) IsShuttingDown() bool { return f.shuttingDown.Load() }

// BacklogSize returns enqueued-but-not-yet-dispatched refreshes.
func (f *Refresher) BacklogSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.backlog)
}

// Metrics returns counters and sizes for observability.
func (f *Refresher) Metrics() (enq, proc uint64, backlog int) {
	return f.enqueued.Load(), f.processed.Load(), f.BacklogSize()
}

// DrainUntil blocks until every accepted refresh has been processed or the
// context is done.
func (f *Refresher) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog := f.Metrics()
		if backlog == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(25 * time.Millisecond):
		}
	}
}
