package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func decodeInto(tb testing.TB, resp *http.Response, v any) {
	tb.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		tb.Fatalf("decode: %v", err)
	}
}

// Benchmark for the scrape intake; to run: go test -bench=. ./test/integration -run ^$
func BenchmarkScrapeIntake(b *testing.B) {
	resp, err := http.Post(base+"/api/v1/users/register", "application/json",
		jsonBody(`{"username":"benchuser","email":"bench@example.com","password":"Str0ngPass"}`))
	if err != nil {
		b.Fatal(err)
	}
	var tr struct {
		AccessToken string `json:"access_token"`
	}
	decodeInto(b, resp, &tr)

	req, err := http.NewRequest(http.MethodPost, base+"/api/v1/products/",
		jsonBody(`{"name":"bench widget","platform":"amazon","product_url":"https://example.com/bench"}`))
	if err != nil {
		b.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tr.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		b.Fatal(err)
	}
	var p struct {
		ID int64 `json:"id"`
	}
	decodeInto(b, resp, &p)

	url := fmt.Sprintf("%s/api/v1/products/%d/scrape", base, p.ID)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, _ := http.NewRequest(http.MethodPost, url, nil)
			r.Header.Set("Authorization", "Bearer "+tr.AccessToken)
			resp, err := http.DefaultClient.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
