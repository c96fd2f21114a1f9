package callback

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MikeSquared-Agency/lure/internal/intel"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatch_DeliversReport(t *testing.T) {
	var mu sync.Mutex
	var received []Report

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var report Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			t.Errorf("decoding report: %v", err)
		}
		mu.Lock()
		received = append(received, report)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	intelligence := intel.NewRecord()
	intelligence.UPIIDs = []string{"scammer@upi"}

	d := NewDispatcher(server.URL, discardLogger())
	issued := d.Dispatch(Report{
		SessionID:                 "S1",
		ScamDetected:              true,
		TotalMessagesExchanged:    4,
		EngagementDurationSeconds: 120,
		ExtractedIntelligence:     intelligence,
		AgentNotes:                "upi fraud engagement",
		ScamType:                  "upi_fraud",
		ConfidenceLevel:           0.9,
	})
	d.Close()

	if !issued {
		t.Error("Dispatch should report the attempt as issued")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 report, got %d", len(received))
	}
	got := received[0]
	if got.SessionID != "S1" || !got.ScamDetected || got.ScamType != "upi_fraud" {
		t.Errorf("unexpected report %+v", got)
	}
	if len(got.ExtractedIntelligence.UPIIDs) != 1 {
		t.Errorf("intelligence not carried: %+v", got.ExtractedIntelligence)
	}
}

func TestDispatch_ServerErrorNotRetried(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, discardLogger())
	d.Dispatch(Report{SessionID: "S1"})
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected exactly 1 delivery attempt, got %d", calls)
	}
}

func TestDispatch_EmptyURLIsNoop(t *testing.T) {
	d := NewDispatcher("", discardLogger())
	if d.Dispatch(Report{SessionID: "S1"}) {
		t.Error("Dispatch with no endpoint must report the attempt as not issued")
	}
	d.Close()
}

func TestDispatch_UnreachableEndpointDoesNotBlock(t *testing.T) {
	d := NewDispatcher("http://127.0.0.1:1/callback", discardLogger())
	for i := 0; i < 5; i++ {
		d.Dispatch(Report{SessionID: "S1"})
	}
	d.Close()
}
