package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-basket-analytics/internal/model"
)

func fastRetry(attempts int) model.RetryConfig {
	return model.RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func ordersJSON(ids ...int64) string {
	out := "["
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id":%d,"status":"completed"}`, id)
	}
	return out + "]"
}

func TestFetchAllOrders_Paginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, ordersJSON(1, 2))
		case "2":
			fmt.Fprint(w, ordersJSON(3))
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	c.PerPage = 2
	c.Retry = fastRetry(1)

	orders, err := c.FetchAllOrders(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// page 2 is short, so pagination stops without requesting page 3
	if len(orders) != 3 {
		t.Errorf("fetched %d orders, want 3", len(orders))
	}
}

func TestFetchAllOrders_DeduplicatesAcrossPages(t *testing.T) {
	// an order created mid-pagination shifts the window; id 2 repeats
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, ordersJSON(1, 2))
		case "2":
			fmt.Fprint(w, ordersJSON(2, 3))
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	c.PerPage = 2
	c.Retry = fastRetry(1)

	orders, err := c.FetchAllOrders(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(orders) != 3 {
		t.Errorf("fetched %d orders, want 3 after dedup", len(orders))
	}
}

func TestFetchAllOrders_RetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	c.Retry = fastRetry(3)

	if _, err := c.FetchAllOrders(context.Background()); err != nil {
		t.Fatalf("fetch should have recovered on retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestFetchAllOrders_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	c.Retry = fastRetry(3)

	if _, err := c.FetchAllOrders(context.Background()); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}

func TestFetchPage_SendsAuthAndPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ck_test" || pass != "cs_test" {
			t.Errorf("basic auth = %q/%q (%v)", user, pass, ok)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q, want 100", got)
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck_test", "cs_test")
	if _, err := c.fetchPage(context.Background(), 1); err != nil {
		t.Fatalf("fetchPage: %v", err)
	}
}

func TestBackoffDelay(t *testing.T) {
	cfg := model.RetryConfig{
		InitialDelay:  time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
	}
	if got := backoffDelay(cfg, 1); got != time.Second {
		t.Errorf("attempt 1 delay = %v, want 1s", got)
	}
	if got := backoffDelay(cfg, 2); got != 2*time.Second {
		t.Errorf("attempt 2 delay = %v, want 2s", got)
	}
	// growth is capped at MaxDelay
	if got := backoffDelay(cfg, 10); got != 5*time.Second {
		t.Errorf("attempt 10 delay = %v, want the 5s cap", got)
	}

	cfg.Jitter = true
	got := backoffDelay(cfg, 1)
	if got < time.Second || got > 1250*time.Millisecond {
		t.Errorf("jittered delay %v outside [1s, 1.25s]", got)
	}
}

func TestRefreshSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, ordersJSON(1))
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	c.Retry = fastRetry(1)

	path := t.TempDir() + "/orders.json"
	info, err := RefreshSnapshot(context.Background(), c, path)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if info.OrderCount != 1 {
		t.Errorf("snapshot count = %d, want 1", info.OrderCount)
	}

	orders, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 1 {
		t.Errorf("persisted snapshot = %+v", orders)
	}
}
