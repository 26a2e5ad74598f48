package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/law-makers/harvest/pkg/models"
)

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(NewFetcher(http.DefaultClient, nil, "HarvestBot/1.0 (test)"), 0)
}

func collect(events <-chan models.ProgressEvent) []models.ProgressEvent {
	var all []models.ProgressEvent
	for ev := range events {
		all = append(all, ev)
	}
	return all
}

func TestRun_AllSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="title">Item ` + r.URL.Path + `</div></body></html>`))
	}))
	defer server.Close()

	orch := newTestOrchestrator()
	events := orch.Run(context.Background(), models.ScrapeRequest{
		URLs:     []string{server.URL + "/1", server.URL + "/2"},
		Selector: ".title",
		Timeout:  5 * time.Second,
	})

	all := collect(events)
	// Progress+Result per URL, then Complete.
	if len(all) != 5 {
		t.Fatalf("expected 5 events, got %d", len(all))
	}

	// Index is 1-based: the first URL's progress event must carry a
	// non-zero index so JSON consumers always see the field.
	if all[0].Type != models.EventProgress || all[0].Index != 1 || all[0].Total != 2 {
		t.Errorf("unexpected first event: %+v", all[0])
	}
	if all[2].Type != models.EventProgress || all[2].Index != 2 {
		t.Errorf("unexpected third event: %+v", all[2])
	}
	if all[1].Type != models.EventResult || !all[1].Result.Success {
		t.Errorf("unexpected second event: %+v", all[1])
	}
	if all[1].Result.ExtractedData[0] != "Item /1" {
		t.Errorf("unexpected extraction: %v", all[1].Result.ExtractedData)
	}

	last := all[len(all)-1]
	if last.Type != models.EventComplete {
		t.Fatalf("expected terminal complete, got %s", last.Type)
	}
	if last.Summary.SuccessCount != 2 || last.Summary.ErrorCount != 0 {
		t.Errorf("unexpected summary: %+v", last.Summary)
	}
}

func TestRun_FailureDoesNotAbort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/2" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<html><body><p>ok</p></body></html>"))
	}))
	defer server.Close()

	orch := newTestOrchestrator()
	events := orch.Run(context.Background(), models.ScrapeRequest{
		URLs:    []string{server.URL + "/1", server.URL + "/2", server.URL + "/3"},
		Timeout: 5 * time.Second,
	})

	var results []*models.ScrapeResult
	var complete *models.Summary
	for ev := range events {
		switch ev.Type {
		case models.EventResult:
			results = append(results, ev.Result)
		case models.EventComplete:
			complete = ev.Summary
		}
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Success != true || results[2].Success != true {
		t.Error("expected 1st and 3rd URLs to succeed")
	}
	if results[1].Success {
		t.Error("expected 2nd URL to fail")
	}
	if results[1].StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 recorded, got %d", results[1].StatusCode)
	}
	if results[1].Error == "" {
		t.Error("failed result must carry an error message")
	}

	if complete == nil {
		t.Fatal("missing complete event")
	}
	if complete.SuccessCount != 2 || complete.ErrorCount != 1 {
		t.Errorf("summary = %+v, want 2 successes / 1 error", complete)
	}
	if complete.SuccessCount+complete.ErrorCount != len(results) {
		t.Error("summary counts must sum to the number of results")
	}
}

func TestRun_NetworkErrorRecorded(t *testing.T) {
	orch := newTestOrchestrator()
	events := orch.Run(context.Background(), models.ScrapeRequest{
		URLs:    []string{"http://127.0.0.1:1/unreachable"},
		Timeout: 2 * time.Second,
	})

	all := collect(events)
	last := all[len(all)-1]
	if last.Type != models.EventComplete {
		t.Fatalf("expected complete, got %s", last.Type)
	}
	if last.Summary.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %+v", last.Summary)
	}
	if all[1].Result.StatusCode != 0 {
		t.Errorf("network failure must not carry a status code, got %d", all[1].Result.StatusCode)
	}
}

func TestRun_EmptyInputIsNoOp(t *testing.T) {
	orch := newTestOrchestrator()
	events := orch.Run(context.Background(), models.ScrapeRequest{})

	all := collect(events)
	if len(all) != 1 {
		t.Fatalf("expected a single event, got %d", len(all))
	}
	if all[0].Type != models.EventComplete {
		t.Fatalf("expected complete, got %s", all[0].Type)
	}
	if all[0].Summary.SuccessCount != 0 || all[0].Summary.ErrorCount != 0 {
		t.Errorf("expected 0/0 summary, got %+v", all[0].Summary)
	}
}

func TestRun_CancelDuringDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>ok</p></body></html>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch := newTestOrchestrator()
	events := orch.Run(ctx, models.ScrapeRequest{
		URLs:    []string{server.URL + "/1", server.URL + "/2", server.URL + "/3"},
		Delay:   10 * time.Second,
		Timeout: 5 * time.Second,
	})

	var all []models.ProgressEvent
	for ev := range events {
		all = append(all, ev)
		if ev.Type == models.EventResult {
			// Cancel while the run is paused before the 2nd fetch.
			cancel()
		}
	}

	// Exactly 1 progress, 1 result, then the cancellation terminal.
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(all), all)
	}
	if all[0].Type != models.EventProgress || all[1].Type != models.EventResult {
		t.Errorf("unexpected event order: %s, %s", all[0].Type, all[1].Type)
	}

	last := all[2]
	if last.Type != models.EventCancelled {
		t.Fatalf("expected cancelled terminal, got %s", last.Type)
	}
	if !last.Summary.Cancelled {
		t.Error("terminal summary must be marked cancelled")
	}
	if last.Summary.SuccessCount != 1 || last.Summary.ErrorCount != 0 {
		t.Errorf("summary = %+v, want work completed so far (1/0)", last.Summary)
	}
}

func TestRun_DelayBetweenRequests(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		w.Write([]byte("<html><body>x</body></html>"))
	}))
	defer server.Close()

	const delay = 150 * time.Millisecond
	orch := newTestOrchestrator()
	events := orch.Run(context.Background(), models.ScrapeRequest{
		URLs:    []string{server.URL + "/1", server.URL + "/2"},
		Delay:   delay,
		Timeout: 5 * time.Second,
	})
	collect(events)

	if len(stamps) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(stamps))
	}
	if gap := stamps[1].Sub(stamps[0]); gap < delay {
		t.Errorf("requests %v apart, want at least %v", gap, delay)
	}
}
