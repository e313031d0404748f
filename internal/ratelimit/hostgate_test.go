package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestHostGateFirstCallReturnsImmediately(t *testing.T) {
	g := NewHostGate(50 * time.Millisecond)
	start := time.Now()
	if _, err := g.Wait(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if d := time.Since(start); d > 20*time.Millisecond {
		t.Fatalf("first call took %v, expected near-immediate", d)
	}
}

func TestHostGateSerialisesSameHost(t *testing.T) {
	g := NewHostGate(80 * time.Millisecond)
	ctx := context.Background()

	t1, err := g.Wait(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("wait 1: %v", err)
	}
	t2, err := g.Wait(ctx, "http://example.com:8080/b")
	if err != nil {
		t.Fatalf("wait 2: %v", err)
	}
	if d := t2.Sub(t1); d < 75*time.Millisecond {
		t.Fatalf("same-host gap = %v, want >= ~80ms", d)
	}
}

func TestHostGateDoesNotSerialiseDifferentHosts(t *testing.T) {
	g := NewHostGate(200 * time.Millisecond)
	ctx := context.Background()

	done := make(chan time.Duration, 2)
	for _, host := range []string{"https://a.example/x", "https://b.example/y"} {
		host := host
		go func() {
			start := time.Now()
			g.Wait(ctx, host)
			done <- time.Since(start)
		}()
	}
	for i := 0; i < 2; i++ {
		if d := <-done; d > 50*time.Millisecond {
			t.Fatalf("cross-host wait took %v, expected near-immediate", d)
		}
	}
}

func TestHostGateMalformedURLDoesNotPanic(t *testing.T) {
	g := NewHostGate(10 * time.Millisecond)
	inputs := []string{"", "not a url at all", "://broken", "   "}
	for _, in := range inputs {
		if _, err := g.Wait(context.Background(), in); err != nil {
			t.Fatalf("wait(%q): %v", in, err)
		}
	}
}

func TestHostGateRespectsContextCancellation(t *testing.T) {
	g := NewHostGate(500 * time.Millisecond)
	ctx := context.Background()
	g.Wait(ctx, "https://slow.example/")

	cctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Wait(cctx, "https://slow.example/"); err == nil {
		t.Fatal("expected context deadline error")
	}
}
