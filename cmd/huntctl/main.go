// Command huntctl is a thin CLI front-end over the scanning engine: it
// wires environment configuration, persisted settings, the provider and
// addon registries, and the engine together, then runs one scan and
// prints the results as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/afterpacket/huntcore/internal/addon"
	"github.com/afterpacket/huntcore/internal/addons/latencyrank"
	"github.com/afterpacket/huntcore/internal/addons/pwstrength"
	"github.com/afterpacket/huntcore/internal/addons/siblinghosts"
	"github.com/afterpacket/huntcore/internal/buildinfo"
	"github.com/afterpacket/huntcore/internal/config"
	"github.com/afterpacket/huntcore/internal/demo"
	"github.com/afterpacket/huntcore/internal/engine"
	"github.com/afterpacket/huntcore/internal/geoip"
	"github.com/afterpacket/huntcore/internal/providers"
	"github.com/afterpacket/huntcore/internal/stats"
)

func main() {
	var (
		identifier   = flag.String("identifier", "", "identifier to scan (username, email, IP, etc.)")
		providerList = flag.String("providers", "", "comma-separated provider names; empty selects all")
		geoDBPath    = flag.String("geoip-db", "", "path to a MaxMind-compatible country.mmdb; empty disables geoip")
		showVersion  = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("huntctl %s (commit %s, built %s)\n", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)
		return
	}

	if *identifier == "" {
		fatalf("-identifier is required")
	}

	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		fatalf("%v", err)
	}

	settings, err := config.LoadSettings(envCfg.SettingsPath)
	if err != nil {
		fatalf("load settings: %v", err)
	}

	geoReader := openGeoReader(*geoDBPath)
	if geoReader != nil {
		defer geoReader.Close()
	}

	providerRegistry, err := providers.Build(settings, geoReader)
	if err != nil {
		fatalf("build provider registry: %v", err)
	}

	latencyTable := stats.NewProviderLatencyTable(256)
	defer latencyTable.Close()

	addonRegistry, err := addon.NewRegistry(
		pwstrength.New(),
		latencyrank.New(latencyTable),
		siblinghosts.New(),
	)
	if err != nil {
		fatalf("build addon registry: %v", err)
	}
	if len(settings.EnabledAddons) > 0 {
		addonRegistry.SetEnabled(settings.EnabledAddons)
	}

	eng := engine.New(engine.Config{
		Providers:        providerRegistry,
		Addons:           addonRegistry,
		MaxConcurrency:   envCfg.MaxConcurrency,
		MinHostInterval:  envCfg.MinHostInterval,
		TorProxyURL:      envCfg.TorProxyURL,
		ClearnetProxyURL: envCfg.ClearnetProxyURL,
		Mode:             demo.StaticMode(envCfg.DemoMode),
		Redactor:         demo.DefaultRedactor{},
	})

	var names []string
	if *providerList != "" {
		for _, n := range strings.Split(*providerList, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}

	results := eng.Scan(context.Background(), engine.ScanOptions{
		Identifier:    *identifier,
		ProviderNames: names,
	})

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fatalf("marshal results: %v", err)
	}
	fmt.Println(string(out))
}

func openGeoReader(path string) geoip.GeoReader {
	if path == "" {
		return nil
	}
	reader, err := geoip.MMDBOpen(path)
	if err != nil {
		log.Printf("huntctl: failed to open geoip database %q: %v", path, err)
		return nil
	}
	return reader
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
