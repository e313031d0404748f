// Package engine implements the central scan algorithm: fan-out over a
// provider set, per-host politeness, client routing, timeout enforcement,
// optional demo redaction, and addon post-processing.
package engine

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/afterpacket/huntcore/internal/addon"
	"github.com/afterpacket/huntcore/internal/demo"
	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/ratelimit"
	"github.com/afterpacket/huntcore/internal/uaprofile"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrency is the default engine-wide probe concurrency cap.
const DefaultMaxConcurrency = 6

// OuterTimeoutSlack is added to a probe's declared timeout to absorb the
// probe's own internal retries/timeouts before the engine gives up on it.
const OuterTimeoutSlack = 5 * time.Second

// ProgressFunc is invoked once per probe as its result becomes available.
// It may be called concurrently from multiple workers; the engine treats
// it as fast and non-throwing.
type ProgressFunc func(hunttype.ProbeResult)

// ScanEngine runs scans against a fixed provider and addon registry.
type ScanEngine struct {
	providers *provider.Registry
	addons    *addon.Registry

	maxConcurrency   int
	minHostInterval  time.Duration
	torProxyURL      string
	clearnetProxyURL string

	mode     demo.ModeSource
	redactor demo.Redactor
}

// Config configures a ScanEngine.
type Config struct {
	Providers        *provider.Registry
	Addons           *addon.Registry
	MaxConcurrency   int
	MinHostInterval  time.Duration
	TorProxyURL      string
	ClearnetProxyURL string
	Mode             demo.ModeSource
	Redactor         demo.Redactor
}

// New builds a ScanEngine from cfg, filling in documented defaults for
// zero-value fields.
func New(cfg Config) *ScanEngine {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	minHostInterval := cfg.MinHostInterval
	if minHostInterval <= 0 {
		minHostInterval = ratelimit.DefaultMinInterval
	}
	mode := cfg.Mode
	if mode == nil {
		mode = demo.StaticMode(false)
	}
	redactor := cfg.Redactor
	if redactor == nil {
		redactor = demo.DefaultRedactor{}
	}
	return &ScanEngine{
		providers:        cfg.Providers,
		addons:           cfg.Addons,
		maxConcurrency:   maxConcurrency,
		minHostInterval:  minHostInterval,
		torProxyURL:      cfg.TorProxyURL,
		clearnetProxyURL: cfg.ClearnetProxyURL,
		mode:             mode,
		redactor:         redactor,
	}
}

// ScanOptions parameterises a single Scan call.
type ScanOptions struct {
	// Identifier is the opaque query token passed to every probe.
	Identifier string

	// ProviderNames, if non-empty, restricts the probe set to these
	// names (unknown names are silently dropped); empty selects every
	// registered provider.
	ProviderNames []string

	// ExtraAddons are dynamic, caller-supplied addons run alongside the
	// registry's enabled set for this scan only.
	ExtraAddons []addon.Addon

	// OnProgress, if non-nil, is invoked once per probe result as it
	// becomes available.
	OnProgress ProgressFunc
}

// Scan runs every selected probe concurrently, applies demo redaction and
// addon post-processing, and returns the results sorted by lowercased
// provider name. Scan never returns an error: all probe-level failures are
// represented as ERROR/BLOCKED/UNKNOWN results.
func (e *ScanEngine) Scan(ctx context.Context, opts ScanOptions) []hunttype.ProbeResult {
	scanID := uuid.New().String()
	probes := e.providers.Select(opts.ProviderNames)
	log.Printf("[engine] scan %s: %d probes selected", scanID, len(probes))

	clients, err := newClientSet(e.torProxyURL, e.clearnetProxyURL)
	if err != nil {
		// Client-set construction only fails on a malformed proxy URL
		// supplied at startup; degrade to a direct-only client rather
		// than aborting the scan, since the engine must always return.
		clients = &clientSet{direct: &http.Client{Timeout: defaultClientTimeout}}
	}
	defer clients.release()

	limiter := ratelimit.NewHostGate(e.minHostInterval)
	sem := semaphore.NewWeighted(int64(e.maxConcurrency))

	results := make([]hunttype.ProbeResult, len(probes))
	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			result := e.runProbe(ctx, p, opts.Identifier, clients, limiter, sem)
			results[i] = result
			if opts.OnProgress != nil {
				opts.OnProgress(result)
			}
		}(i, p)
	}
	wg.Wait()

	e.runAddons(ctx, opts.Identifier, &results, clients.direct, limiter, opts.ExtraAddons)

	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Provider) < strings.ToLower(results[j].Provider)
	})
	log.Printf("[engine] scan %s: done, %d results", scanID, len(results))
	return results
}

func (e *ScanEngine) runProbe(
	ctx context.Context,
	p provider.Provider,
	identifier string,
	clients *clientSet,
	limiter *ratelimit.HostGate,
	sem *semaphore.Weighted,
) hunttype.ProbeResult {
	targetURL := p.BuildURL(identifier)
	headers := uaprofile.Merge(uaprofile.Lookup("desktop_chrome"), uaprofile.Lookup(p.UAProfile()))

	if _, err := limiter.Wait(ctx, targetURL); err != nil {
		return e.finalize(hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(),
			Username: identifier,
			URL:      targetURL,
			Status:   hunttype.StatusError,
			Error:    err.Error(),
		}))
	}

	client := clients.selectFor(targetURL, p.UseProxy())

	if err := sem.Acquire(ctx, 1); err != nil {
		return e.finalize(hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(),
			Username: identifier,
			URL:      targetURL,
			Status:   hunttype.StatusError,
			Error:    err.Error(),
		}))
	}
	defer sem.Release(1)

	// elapsed_ms is measured from here, not from dispatch entry, so that
	// host-gate and worker-pool queueing delay (unbounded by design)
	// never counts against the probe.timeout_sec+5 bound.
	start := time.Now()
	timeoutSec := p.TimeoutSec()
	outerTimeout := time.Duration(timeoutSec)*time.Second + OuterTimeoutSlack
	probeCtx, cancel := context.WithTimeout(ctx, outerTimeout)
	defer cancel()

	resultCh := make(chan hunttype.ProbeResult, 1)
	go func() {
		resultCh <- safeCheck(p, probeCtx, identifier, client, headers)
	}()

	select {
	case result := <-resultCh:
		result.ElapsedMs = time.Since(start).Milliseconds()
		return e.finalize(result)
	case <-probeCtx.Done():
		elapsed := time.Since(start)
		return e.finalize(hunttype.NewProbeResult(hunttype.ResultParams{
			Provider:  p.Name(),
			Username:  identifier,
			URL:       targetURL,
			Status:    hunttype.StatusError,
			ElapsedMs: elapsed.Milliseconds(),
			Error:     fmt.Sprintf("Timed out after %ds", timeoutSec+int(OuterTimeoutSlack.Seconds())),
		}))
	}
}

// safeCheck invokes p.Check and converts a panic into a StatusError
// result, since the provider contract forbids raising but a single
// misbehaving probe must never take the whole scan down.
func safeCheck(p provider.Provider, ctx context.Context, identifier string, client *http.Client, headers map[string]string) (result hunttype.ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			result = hunttype.NewProbeResult(hunttype.ResultParams{
				Provider: p.Name(),
				Username: identifier,
				URL:      p.BuildURL(identifier),
				Status:   hunttype.StatusError,
				Error:    fmt.Sprintf("probe panicked: %v", r),
			})
		}
	}()
	return p.Check(ctx, identifier, client, headers)
}

// finalize applies demo redaction, queried exactly once per result.
func (e *ScanEngine) finalize(result hunttype.ProbeResult) hunttype.ProbeResult {
	if !e.mode.IsDemoMode() {
		return result
	}
	result.Evidence = redactValueMap(e.redactor, result.Evidence)
	result.Profile = redactValueMap(e.redactor, result.Profile)
	return result
}

func redactValueMap(r demo.Redactor, m hunttype.ValueMap) hunttype.ValueMap {
	if len(m) == 0 {
		return m
	}
	out := make(hunttype.ValueMap, len(m))
	for k, v := range m {
		if k == "raw_results" {
			if list, ok := v.AsList(); ok {
				out[k] = hunttype.NewValue(r.CensorBreachData(list))
				continue
			}
		}
		out[k] = r.CensorValue(v, k)
	}
	return out
}

func (e *ScanEngine) runAddons(
	ctx context.Context,
	identifier string,
	results *[]hunttype.ProbeResult,
	client *http.Client,
	limiter *ratelimit.HostGate,
	extra []addon.Addon,
) {
	active := e.addons.Enabled()
	active = append(append([]addon.Addon{}, active...), extra...)
	if len(active) == 0 {
		return
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, a := range active {
		wg.Add(1)
		go func(a addon.Addon) {
			defer wg.Done()
			defer func() { recover() }()
			mu.Lock()
			defer mu.Unlock()
			_ = a.Run(ctx, identifier, results, client, limiter)
		}(a)
	}
	wg.Wait()
}
