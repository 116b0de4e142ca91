package sheets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers/sheets"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
)

var testLocator = models.SourceLocator{Kind: models.SourceSheets, TableID: "sheet-abc", Range: "Sheet1"}

func newLiveClient(baseURL string, policy *retry.RetryPolicy) *sheets.Client {
	return sheets.New(sheets.Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Mode:    sheets.ModeLive,
		Timeout: 2 * time.Second,
		Retry:   policy,
	})
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		key  string
		want sheets.Mode
	}{
		{"", sheets.ModeDemo},
		{"   ", sheets.ModeDemo},
		{sheets.PlaceholderAPIKey, sheets.ModeDemo},
		{"AIzaSy-real", sheets.ModeLive},
	}

	for _, tt := range tests {
		if got := sheets.ResolveMode(tt.key); got != tt.want {
			t.Errorf("ResolveMode(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestFetchRows_Success(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testutil.MockSheetsBody("Sheet1!A1:E3", `[["player","Results"],["ana","Human","",75.5],["bo","AI"]]`)))
	}))
	defer server.Close()

	rows, err := newLiveClient(server.URL, nil).FetchRows(context.Background(), testLocator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v4/spreadsheets/sheet-abc/values/Sheet1" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("unexpected key %q", gotKey)
	}

	want := []models.Row{
		{"player", "Results"},
		{"ana", "Human", "", "75.5"},
		{"bo", "AI"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestFetchRows_MissingValuesIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"range":"Sheet1","majorDimension":"ROWS"}`))
	}))
	defer server.Close()

	rows, err := newLiveClient(server.URL, nil).FetchRows(context.Background(), testLocator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %v", rows)
	}
}

func TestFetchRows_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind models.FetchErrorKind
	}{
		{"forbidden", http.StatusForbidden, `{"error":{"code":403}}`, models.FetchHTTP},
		{"not found", http.StatusNotFound, `not found`, models.FetchHTTP},
		{"not json", http.StatusOK, `<html>`, models.FetchMalformed},
		{"values not array", http.StatusOK, `{"values":"nope"}`, models.FetchMalformed},
		{"row not array", http.StatusOK, `{"values":[["a"],"b"]}`, models.FetchMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newLiveClient(server.URL, nil).FetchRows(context.Background(), testLocator)

			var fetchErr *models.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fetchErr.Kind != tt.wantKind {
				t.Errorf("expected kind %s, got %s", tt.wantKind, fetchErr.Kind)
			}
			if tt.wantKind == models.FetchHTTP && fetchErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, fetchErr.Status)
			}
		})
	}
}

func TestFetchRows_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"values":[["h"],["1"]]}`))
	}))
	defer server.Close()

	policy := retry.NewRetryPolicy(3, time.Millisecond, sheets.Retryable)
	rows, err := newLiveClient(server.URL, policy).FetchRows(context.Background(), testLocator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestFetchRows_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	policy := retry.NewRetryPolicy(3, time.Millisecond, sheets.Retryable)
	if _, err := newLiveClient(server.URL, policy).FetchRows(context.Background(), testLocator); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestFetchRows_DemoModeSkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := sheets.New(sheets.Config{BaseURL: server.URL, Mode: sheets.ResolveMode("")})
	if client.Mode() != sheets.ModeDemo {
		t.Fatalf("expected demo mode, got %s", client.Mode())
	}

	rows, err := client.FetchRows(context.Background(), testLocator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rows, sheets.DemoRows()) {
		t.Errorf("expected demo rows, got %v", rows)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("demo mode made %d network calls", calls)
	}
}

func TestFetchRows_LiveModeUsesNetworkNotDemo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values":[["live"]]}`))
	}))
	defer server.Close()

	client := sheets.New(sheets.Config{BaseURL: server.URL, APIKey: "k", Mode: sheets.ResolveMode("k")})
	rows, err := client.FetchRows(context.Background(), testLocator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reflect.DeepEqual(rows, sheets.DemoRows()) {
		t.Error("live mode returned demo rows")
	}
}

func TestFetchRows_LiveWithoutKey(t *testing.T) {
	client := sheets.New(sheets.Config{Mode: sheets.ModeLive})

	_, err := client.FetchRows(context.Background(), testLocator)

	var fetchErr *models.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != models.FetchCredentials {
		t.Fatalf("expected credentials FetchError, got %v", err)
	}
}

func TestDemoRows_Copy(t *testing.T) {
	rows := sheets.DemoRows()
	rows[1][0] = "changed"

	if sheets.DemoRows()[1][0] != "10" {
		t.Error("DemoRows shares backing arrays")
	}
}
