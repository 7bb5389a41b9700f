package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestWebhookSinkDelivers(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Team") != "triage" {
			t.Errorf("missing configured header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(srv.URL, map[string]string{"X-Team": "triage"}, 0)
	if err != nil {
		t.Fatalf("NewWebhookSink: %v", err)
	}
	ev := &Event{RequestID: "req-7", Band: "high", RawBand: "moderate"}
	if err := sink.Deliver(context.Background(), ev); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got.RequestID != "req-7" || got.Band != "high" {
		t.Fatalf("received %+v", got)
	}
}

func TestWebhookSinkRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := NewWebhookSink(srv.URL, nil, 0)
	if err != nil {
		t.Fatalf("NewWebhookSink: %v", err)
	}
	if err := sink.Deliver(context.Background(), &Event{RequestID: "r"}); err != nil {
		t.Fatalf("Deliver after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestWebhookSinkRejectsEmptyURL(t *testing.T) {
	if _, err := NewWebhookSink("", nil, 0); err == nil {
		t.Fatal("expected error")
	}
}
