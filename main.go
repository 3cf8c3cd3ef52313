package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"contact-allocator/allocator"
	"contact-allocator/config"
	"contact-allocator/formatter"
	"contact-allocator/metrics"
	"contact-allocator/models"
	"contact-allocator/parser"
	"contact-allocator/preprocess"
	"contact-allocator/reconcile"
	"contact-allocator/sheets"
	"contact-allocator/validator"
	"contact-allocator/workbook"
)

func main() {
	// Define flags
	sheet := flag.String("sheet", "", "Input Google Sheets URL or local .xlsx file (required)")
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	output := flag.String("output", "", "Output .xlsx filename (default: allocation_output.xlsx)")
	contactsTab := flag.String("contacts-tab", "", "Name of the contacts tab (default: \"All Contacts\")")
	agentsTab := flag.String("agents-tab", "", "Name of the agents tab (default: \"Agents\")")
	prioritiesTab := flag.String("priorities-tab", "", "Name of the priorities tab (default: \"Source Priorities\")")
	maxPerAgent := flag.Int("max-per-agent", -1, "Maximum contacts per agent (0 = unlimited)")
	format := flag.String("format", "text", "Report format: text|json")
	dryRun := flag.Bool("dry-run", false, "Validate and preview allocation without writing the workbook")
	fresh := flag.Bool("fresh", false, "Ignore an existing output file and start over (no incremental merge)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			fmt.Printf("Metrics server listening on %s/metrics\n", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	// Validate required sheet flag
	if *sheet == "" {
		fmt.Println("Error: -sheet flag is required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json (got: %s)\n", *format)
		os.Exit(1)
	}

	// Config precedence: CLI flags > config file > defaults
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("Loading config file", zap.String("path", *configPath), zap.Error(err))
		}
		cfg = loaded
		logger.Info("Loaded config file", zap.String("path", *configPath))
	}
	if *contactsTab != "" {
		cfg.ContactsTab = *contactsTab
	}
	if *agentsTab != "" {
		cfg.AgentsTab = *agentsTab
	}
	if *prioritiesTab != "" {
		cfg.PrioritiesTab = *prioritiesTab
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *maxPerAgent >= 0 {
		cfg.MaxPerAgent = *maxPerAgent
	}
	if cfg.MaxPerAgent > 0 {
		logger.Info("Allocation cap enabled", zap.Int("max_per_agent", cfg.MaxPerAgent))
	}

	source, err := sheets.Open(*sheet, nil)
	if err != nil {
		logger.Fatal("Opening row source", zap.String("location", *sheet), zap.Error(err))
	}

	metrics.ResetGauges()

	contactsRows := fetchTab(logger, source, cfg.ContactsTab)
	agentsRows := fetchTab(logger, source, cfg.AgentsTab)

	// A missing priorities tab only means every source falls to the default
	// tier, matching the empty-tab behavior.
	var prioritiesRows [][]string
	start := time.Now()
	prioritiesRows, err = source.FetchTab(cfg.PrioritiesTab)
	metrics.FetchDurationSeconds.WithLabelValues(cfg.PrioritiesTab).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Warn("Priorities tab unavailable, all sources get default priority",
			zap.String("tab", cfg.PrioritiesTab), zap.Error(err))
		prioritiesRows = nil
	}

	contacts, rawContacts := parser.Contacts(contactsRows)
	agents, rawAgents := parser.Agents(agentsRows)
	rules, rawPriorities, invalidRows := parser.Priorities(prioritiesRows)
	for _, row := range invalidRows {
		logger.Warn("Invalid priority value, using default",
			zap.Int("row", row), zap.Int("default", models.DefaultPriority))
	}
	logger.Info("Loaded input",
		zap.Int("contacts", len(contacts)),
		zap.Int("agents", len(agents)),
		zap.Int("priority_rules", len(rules)))

	if ok, msg := validator.Validate(contacts, agents); !ok {
		logger.Error("Validation failed", zap.String("reason", msg))
		fmt.Fprintf(os.Stderr, "Validation failed: %s\n", msg)
		os.Exit(1)
	}

	// Incremental mode: an existing output file is the prior snapshot unless
	// -fresh is set. Dry runs never read or write the output file.
	state := reconcile.Empty()
	if !*fresh && !*dryRun {
		skip := []string{cfg.ContactsTab, cfg.AgentsTab, cfg.PrioritiesTab,
			workbook.SummarySheet, workbook.UnallocatedSheet}
		state, err = reconcile.LoadSnapshot(cfg.Output, skip, agents)
		if err != nil {
			logger.Fatal("Loading snapshot", zap.String("path", cfg.Output), zap.Error(err))
		}
		if state.Incremental() {
			logger.Info("Existing allocation file detected, running incrementally",
				zap.String("path", cfg.Output),
				zap.Int("previously_allocated", len(state.AllocatedPhones)),
				zap.Strings("inactive_agents", state.InactiveAgents))
			metrics.InactiveAgents.Set(float64(len(state.InactiveAgents)))
		}
	}

	contacts, duplicates := preprocess.Deduplicate(contacts)
	if len(duplicates) > 0 {
		logger.Info("Removed duplicate phone numbers, kept first occurrence",
			zap.Int("count", len(duplicates)))
		for i, d := range duplicates {
			if i == 5 {
				logger.Debug("More duplicates omitted", zap.Int("remaining", len(duplicates)-5))
				break
			}
			logger.Debug("Duplicate removed",
				zap.String("phone", d.Phone),
				zap.String("kept", d.KeptName),
				zap.String("removed", d.DuplicateName))
		}
	}
	metrics.DuplicatesRemoved.Set(float64(len(duplicates)))

	contacts, priorityStats := preprocess.AssignPriorities(contacts, rules)
	if priorityStats.NoSource > 0 {
		logger.Info("Contacts without source assigned default priority",
			zap.Int("count", priorityStats.NoSource))
	}
	if len(priorityStats.UnknownSources) > 0 {
		logger.Info("Unknown sources assigned default priority",
			zap.Strings("sources", priorityStats.UnknownSources))
	}

	var already []models.Contact
	if state.Incremental() {
		contacts, already = reconcile.FilterAllocated(contacts, state)
		logger.Info("Incremental filtering",
			zap.Int("already_allocated", len(already)),
			zap.Int("new_contacts", len(contacts)))
	}
	metrics.AlreadyAllocatedSkipped.Set(float64(len(already)))

	start = time.Now()
	result := allocator.Allocate(contacts, agents, cfg.MaxPerAgent)
	metrics.AllocateDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.ObserveResult(result)

	var incr *formatter.IncrementalStats
	if state.Incremental() {
		inactive := make(map[string]int, len(state.InactiveAgents))
		for _, name := range state.InactiveAgents {
			inactive[name] = len(state.PriorAllocations[name])
		}
		incr = &formatter.IncrementalStats{
			PreviouslyAllocated: len(state.AllocatedPhones),
			InputDuplicates:     len(duplicates),
			AlreadyAllocated:    len(already),
			InactiveAgents:      inactive,
		}
	}

	// Output based on format
	switch *format {
	case "json":
		fmt.Print(formatter.FormatJSON(result))
	default: // "text"
		fmt.Print(formatter.FormatText(result, incr))
	}

	if *dryRun {
		logger.Info("Dry run, no workbook written")
	} else {
		out := workbook.Output{
			ContactsTab:      cfg.ContactsTab,
			AgentsTab:        cfg.AgentsTab,
			PrioritiesTab:    cfg.PrioritiesTab,
			RawContacts:      rawContacts,
			RawAgents:        rawAgents,
			RawPriorities:    rawPriorities,
			Agents:           agents,
			Unallocated:      result.Unallocated,
			Summary:          result.Summary,
			PriorAllocations: state.PriorAllocations,
			InactiveAgents:   state.InactiveAgents,
		}
		if err := workbook.Write(cfg.Output, out); err != nil {
			logger.Fatal("Writing workbook", zap.String("path", cfg.Output), zap.Error(err))
		}
		logger.Info("Workbook written", zap.String("path", cfg.Output))
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "contact_allocator"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Println("\nMetrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}

// fetchTab loads one required tab, timing the fetch. Failures are fatal; the
// row source owns its own retry policy.
func fetchTab(logger *zap.Logger, source sheets.RowSource, tab string) [][]string {
	start := time.Now()
	rows, err := source.FetchTab(tab)
	metrics.FetchDurationSeconds.WithLabelValues(tab).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Fatal("Fetching tab", zap.String("tab", tab), zap.Error(err))
	}
	logger.Debug("Fetched tab", zap.String("tab", tab), zap.Int("rows", len(rows)))
	return rows
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	return logger.With(zap.String("run_id", uuid.NewString()))
}
