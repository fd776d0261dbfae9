package jobmarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestFetchDescriptions(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"app_id":           r.URL.Query().Get("app_id"),
			"app_key":          r.URL.Query().Get("app_key"),
			"what":             r.URL.Query().Get("what"),
			"results_per_page": r.URL.Query().Get("results_per_page"),
		}
		w.Write([]byte(`{"results":[
			{"description":"We need Python and SQL."},
			{"description":""},
			{"description":"Kubernetes experience required."}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("id", "key", srv.URL)
	got, err := c.FetchDescriptions(context.Background(), "ML Engineer", "us", 10)
	if err != nil {
		t.Fatalf("FetchDescriptions error: %v", err)
	}

	want := []string{"We need Python and SQL.", "Kubernetes experience required."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("descriptions = %v, want %v", got, want)
	}
	if gotPath != "/us/search/1" {
		t.Errorf("path = %q, want /us/search/1", gotPath)
	}
	wantQuery := map[string]string{
		"app_id": "id", "app_key": "key", "what": "ML Engineer", "results_per_page": "10",
	}
	if !reflect.DeepEqual(gotQuery, wantQuery) {
		t.Errorf("query = %v, want %v", gotQuery, wantQuery)
	}
}

func TestFetchDescriptions_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("id", "key", srv.URL)
	if _, err := c.FetchDescriptions(context.Background(), "AI", "us", 10); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestFetchDescriptions_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("id", "key", srv.URL)
	got, err := c.FetchDescriptions(context.Background(), "AI", "us", 10)
	if err != nil {
		t.Fatalf("FetchDescriptions error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d descriptions, want 0", len(got))
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("", "").Configured() {
		t.Error("client without credentials must not report configured")
	}
	if !NewClient("id", "key").Configured() {
		t.Error("client with credentials must report configured")
	}
}
