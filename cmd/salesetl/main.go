package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesetl/internal/config"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/metrics/prompush"

	// Register all storage backends with the factory; the config selects
	// which one a run uses.
	_ "salesetl/internal/storage/all"
)

// main loads the pipeline config, optionally initializes a metrics backend,
// and executes the run.
func main() {
	var (
		cfgPath        string
		metricsBackend string
		pushGatewayURL string
		dogstatsdAddr  string
		reportNames    string
		validate       bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/walmart_sales.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (pushgateway, datadog, none; unset falls back to env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddr, "dogstatsd-addr", "", "DogStatsD address (overrides env DOGSTATSD_ADDR)")
	flag.StringVar(&reportNames, "reports", "", "comma-separated report names overriding the config ('*' for all, 'none' to skip)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	var p config.Pipeline
	err = json.NewDecoder(f).Decode(&p)
	f.Close()
	if err != nil {
		fatalf("decode config: %v", err)
	}

	hasError := false
	for _, iss := range config.ValidatePipeline(p) {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		return
	}

	if reportNames != "" {
		if reportNames == "none" {
			p.Reports = nil
		} else {
			p.Reports = splitCSVList(reportNames)
		}
	}
	applyRuntimeEnv(&p.Runtime)

	initMetrics(metricsBackend, pushGatewayURL, dogstatsdAddr, p.Job, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	runID := uuid.NewString()
	if *verbose {
		log.Printf("pipeline: run=%s source=%s parser=%s storage=%s table=%s",
			runID, p.Source.Kind, p.Parser.Kind, p.Storage.Kind, p.Storage.DB.Table)
	}

	start := time.Now()
	sum, err := run(context.Background(), runID, p)
	if err != nil {
		log.Fatalf("run %s: %v", runID, err)
	}
	log.Printf("done: run=%s parsed=%d inserted=%d elapsed=%s",
		runID, sum.Parsed, sum.Inserted, time.Since(start).Truncate(time.Millisecond))
}

// resolveMetricsBackend picks the backend name: flag, then env, then none.
func resolveMetricsBackend(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("METRICS_BACKEND")
}

// initMetrics installs the selected metrics backend, if any.
func initMetrics(backendName, pushGatewayURL, dogstatsdAddr, job string, verbose bool) {
	backendName = resolveMetricsBackend(backendName)
	if job == "" {
		job = "salesetl"
	}

	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, job)
		metrics.SetBackend(b)

	case "datadog":
		addr := dogstatsdAddr
		if addr == "" {
			addr = os.Getenv("DOGSTATSD_ADDR")
		}
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  "salesetl.",
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Printf("metrics: init datadog backend: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s job=%s", addr, job)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

// applyRuntimeEnv fills unset runtime knobs from BATCH_SIZE and
// CHANNEL_BUFFER so deployments can tune batching without editing the
// pipeline file.
func applyRuntimeEnv(rt *config.RuntimeConfig) {
	if rt.BatchSize <= 0 {
		if n, err := strconv.Atoi(os.Getenv("BATCH_SIZE")); err == nil && n > 0 {
			rt.BatchSize = n
		}
	}
	if rt.ChannelBuffer <= 0 {
		if n, err := strconv.Atoi(os.Getenv("CHANNEL_BUFFER")); err == nil && n > 0 {
			rt.ChannelBuffer = n
		}
	}
}

func splitCSVList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
