package citation

import (
	"testing"
	"time"
)

func TestMatchStatsSnapshotPercentiles(t *testing.T) {
	stats := NewMatchStats(time.Hour)
	stats.Record(StrategyExact, 100)
	stats.Record(StrategyExact, 200)
	stats.Record(StrategyFuzzy, 300)
	stats.Record(StrategySentence, 400)
	stats.Record("", 500)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", snap.Misses)
	}
	if snap.ByStrategy[StrategyExact] != 2 {
		t.Fatalf("expected 2 exact hits, got %d", snap.ByStrategy[StrategyExact])
	}
}

func TestMatchStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewMatchStats(10 * time.Millisecond)
	stats.Record(StrategyExact, 100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(StrategyExact, 200)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestMatchStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewMatchStats(time.Hour)
	stats.Record(StrategyExact, -10)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestResolverRecordsHitsAndMisses(t *testing.T) {
	stats := NewMatchStats(time.Hour)
	r := &Resolver{Opts: DefaultOptions(), Stats: stats}

	if m := r.Find("license fee is $2,000 per year", contractDoc); m == nil {
		t.Fatal("expected a match")
	}
	if m := r.Find("completely unrelated zebra migration patterns", contractDoc); m != nil {
		t.Fatalf("expected a miss, got %+v", m)
	}

	snap := stats.Snapshot()
	if snap.Count != 2 {
		t.Fatalf("expected 2 samples, got %d", snap.Count)
	}
	if snap.ByStrategy[StrategyExact] != 1 {
		t.Errorf("expected 1 exact hit, got %d", snap.ByStrategy[StrategyExact])
	}
	if snap.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", snap.Misses)
	}
}
