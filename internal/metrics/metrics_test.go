package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorRecordsRequests(t *testing.T) {
	c := NewCollector()
	c.RecordRequest(100*time.Millisecond, 200)
	c.RecordRequest(300*time.Millisecond, 500)

	s := c.Snapshot()
	if s.Requests != 2 {
		t.Errorf("requests: got %d", s.Requests)
	}
	if s.Errors != 1 {
		t.Errorf("errors: got %d", s.Errors)
	}
	if s.TotalDuration != 400*time.Millisecond {
		t.Errorf("total: got %v", s.TotalDuration)
	}
	if s.AverageSeconds != 0.2 {
		t.Errorf("average: got %f", s.AverageSeconds)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	s := NewCollector().Snapshot()
	if s.Requests != 0 || s.AverageSeconds != 0 {
		t.Errorf("empty snapshot: %+v", s)
	}
}

func TestCollectorConcurrentIncrements(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordRequest(time.Millisecond, 200)
			}
		}()
	}
	wg.Wait()
	if got := c.Snapshot().Requests; got != 5000 {
		t.Errorf("requests: got %d, want 5000", got)
	}
}
