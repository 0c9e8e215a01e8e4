package sim

import (
	"context"
	"testing"
	"time"

	"pricetrack/model"
)

func startRefresher(t *testing.T, st *State, workers, buffer int) *Refresher {
	t.Helper()
	ref := NewRefresher(st, workers, buffer)
	ref.Start(context.Background())
	t.Cleanup(ref.Stop)
	return ref
}

func TestRefresherProcessesBacklog(t *testing.T) {
	st := NewState()
	p := seedProduct(t, st, "widget", model.PlatformAmazon)
	ref := startRefresher(t, st, 2, 4)

	// more enqueues than buffer slots; the broker drains the overflow
	for i := 0; i < 10; i++ {
		if !ref.Enqueue(p.ID) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !ref.DrainUntil(ctx) {
		t.Fatalf("drain timed out")
	}
	enq, proc, backlog := ref.Metrics()
	if enq != 10 || proc != 10 || backlog != 0 {
		t.Fatalf("metrics: enq=%d proc=%d backlog=%d", enq, proc, backlog)
	}
	prices := st.ListPrices(PriceFilter{ProductID: &p.ID})
	if len(prices) != 10 {
		t.Fatalf("expected 10 observations, got %d", len(prices))
	}
	for _, pr := range prices {
		if pr.Price <= 0 {
			t.Fatalf("non-positive fabricated price: %+v", pr)
		}
	}
}

func TestRefresherStaysNearLastPrice(t *testing.T) {
	st := NewState()
	p := seedProduct(t, st, "widget", model.PlatformAmazon)
	st.AppendPrice(p.ID, 100, false)
	ref := startRefresher(t, st, 1, 4)

	ref.Enqueue(p.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !ref.DrainUntil(ctx) {
		t.Fatalf("drain timed out")
	}
	got, _ := st.GetProduct(p.ID)
	if got.CurrentPrice == nil || *got.CurrentPrice < 89 || *got.CurrentPrice > 111 {
		t.Fatalf("fabricated price strayed from the last observation: %+v", got.CurrentPrice)
	}
}

func TestRefresherClosedIntake(t *testing.T) {
	st := NewState()
	p := seedProduct(t, st, "widget", model.PlatformAmazon)
	ref := startRefresher(t, st, 1, 4)

	ref.CloseIntake()
	if !ref.IsShuttingDown() {
		t.Fatalf("intake should report closed")
	}
	if ref.Enqueue(p.ID) {
		t.Fatalf("enqueue accepted after intake closed")
	}
	enq, _, _ := ref.Metrics()
	if enq != 0 {
		t.Fatalf("rejected enqueue must not count, got %d", enq)
	}
}

func TestRefresherSkipsDeletedProduct(t *testing.T) {
	st := NewState()
	p := seedProduct(t, st, "widget", model.PlatformAmazon)
	ref := startRefresher(t, st, 1, 4)

	st.DeleteProduct(p.ID)
	ref.Enqueue(p.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !ref.DrainUntil(ctx) {
		t.Fatalf("drain timed out")
	}
	if got := st.ListPrices(PriceFilter{}); len(got) != 0 {
		t.Fatalf("deleted product must not gain observations: %+v", got)
	}
}
