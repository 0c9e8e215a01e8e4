package integration

import (
	"fmt"
	"net/http"
	"testing"

	"pricetrack/model"
)

func TestIntegration_UnauthenticatedRejected(t *testing.T) {
	paths := []string{
		"/api/v1/users/me",
		"/api/v1/products/",
		"/api/v1/prices/",
		"/api/v1/monitoring/alerts/?user_id=1",
	}
	for _, p := range paths {
		resp := doJSON(t, http.MethodGet, p, "", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: got %d", p, resp.StatusCode)
		}
	}
}

func TestIntegration_NotFoundPaths(t *testing.T) {
	tr := newUser(t)
	resp := doJSON(t, http.MethodGet, "/api/v1/products/999999", tr.AccessToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, "/api/v1/prices/product/999999/history", tr.AccessToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product history: %d", resp.StatusCode)
	}
}

func TestIntegration_DeleteCascadesToAlerts(t *testing.T) {
	tr := newUser(t)
	p := newProduct(t, tr.AccessToken, "e2e cascade")
	target := 1.0
	resp := postJSON(t, fmt.Sprintf("/api/v1/monitoring/alerts/?user_id=%d", tr.User.ID), tr.AccessToken, model.PriceAlertCreate{
		ProductID:   p.ID,
		AlertType:   model.AlertTargetPrice,
		TargetPrice: &target,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create alert: %d", resp.StatusCode)
	}
	a := decode[model.PriceAlert](t, resp)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", p.ID), tr.AccessToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete product: %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("/api/v1/monitoring/alerts/%d", a.ID), tr.AccessToken, model.PriceAlertUpdate{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("alert must be gone with its product: %d", resp.StatusCode)
	}
}

func TestIntegration_PaginationWindow(t *testing.T) {
	tr := newUser(t)
	for i := 0; i < 5; i++ {
		newProduct(t, tr.AccessToken, fmt.Sprintf("e2e page item %d", i))
	}
	resp := doJSON(t, http.MethodGet, "/api/v1/products/?search=e2e+page+item&skip=3&limit=10", tr.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: %d", resp.StatusCode)
	}
	list := decode[model.ProductList](t, resp)
	if list.Total != 5 || len(list.Items) != 2 {
		t.Fatalf("pagination: total=%d page=%d", list.Total, len(list.Items))
	}
}
