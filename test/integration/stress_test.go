package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestIntegration_ConcurrentScrapes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	tr := newUser(t)
	p := newProduct(t, tr.AccessToken, "e2e stress widget")

	var wg sync.WaitGroup
	var failures sync.Map
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/products/%d/scrape", base, p.ID), nil)
				if err != nil {
					failures.Store(fmt.Sprintf("%d/%d", n, j), err.Error())
					continue
				}
				req.Header.Set("Authorization", "Bearer "+tr.AccessToken)
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					failures.Store(fmt.Sprintf("%d/%d", n, j), err.Error())
					continue
				}
				if resp.StatusCode != http.StatusAccepted {
					failures.Store(fmt.Sprintf("%d/%d", n, j), resp.StatusCode)
				}
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()
	failures.Range(func(k, v any) bool {
		t.Errorf("scrape %v: %v", k, v)
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if !refresher.DrainUntil(ctx) {
		t.Fatalf("drain timeout")
	}
}
