package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.RecordRefusal()

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(2) {
		t.Fatalf("expected 2 requests, got %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"] != uint64(1) {
		t.Fatalf("expected 1 error, got %v", snap["errorsTotal"])
	}
	if snap["refusalsTotal"] != uint64(1) {
		t.Fatalf("expected 1 refusal, got %v", snap["refusalsTotal"])
	}
	if snap["avgDurationMs"] != float64(20) {
		t.Fatalf("expected avg 20ms, got %v", snap["avgDurationMs"])
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	if snap["requestsTotal"] != uint64(0) {
		t.Fatalf("expected 0 requests, got %v", snap["requestsTotal"])
	}
	if snap["avgDurationMs"] != float64(0) {
		t.Fatalf("expected 0 avg, got %v", snap["avgDurationMs"])
	}
}
