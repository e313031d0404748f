package latencyrank

import (
	"context"
	"testing"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/stats"
)

func TestRunFlagsOutlierAgainstBaseline(t *testing.T) {
	table := stats.NewProviderLatencyTable(16)
	defer table.Close()
	table.Update("discord", 50*time.Millisecond, stats.DefaultDecayWindow)

	results := []hunttype.ProbeResult{
		hunttype.NewProbeResult(hunttype.ResultParams{Provider: "discord", Status: hunttype.StatusFound, ElapsedMs: 5000}),
	}

	a := New(table)
	if err := a.Run(context.Background(), "id", &results, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok := results[0].Profile["latency_outlier"]; !ok {
		t.Fatalf("expected latency_outlier annotation")
	}
}

func TestRunSeedsBaselineWithoutFlagging(t *testing.T) {
	table := stats.NewProviderLatencyTable(16)
	defer table.Close()

	results := []hunttype.ProbeResult{
		hunttype.NewProbeResult(hunttype.ResultParams{Provider: "discord", Status: hunttype.StatusFound, ElapsedMs: 100}),
	}

	a := New(table)
	if err := a.Run(context.Background(), "id", &results, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := results[0].Profile["latency_outlier"]; ok {
		t.Fatalf("first observation should not be flagged")
	}
	if _, found := table.Get("discord"); !found {
		t.Fatalf("expected baseline to be seeded")
	}
}
