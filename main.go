package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"keyword-scout/internal/app"
	"keyword-scout/internal/config"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/models"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	defaultSeeds := getEnvOrDefault("KEYWORDS_SEEDS", "")
	defaultConfig := getEnvOrDefault("KEYWORDS_CONFIG", "")
	defaultDebug := getEnvBoolOrDefault("DEBUG", false)
	defaultJSON := getEnvBoolOrDefault("KEYWORDS_JSON", false)

	var (
		seedList   = flag.String("seeds", defaultSeeds, "Comma-separated manual seeds as term[:category] (env: KEYWORDS_SEEDS)")
		configPath = flag.String("config", defaultConfig, "Configuration file path (env: KEYWORDS_CONFIG)")
		debug      = flag.Bool("debug", defaultDebug, "Enable debug logging (env: DEBUG)")
		asJSON     = flag.Bool("json", defaultJSON, "Print the full response as JSON (env: KEYWORDS_JSON)")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Maximum duration of the research run")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	seeds, err := parseSeeds(*seedList)
	if err != nil {
		fmt.Printf("ERROR: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logger.Level = "debug"
	}
	if *asJSON && cfg.Logger.Output == "stdout" {
		// keep stdout clean for the JSON document
		cfg.Logger.Output = "stderr"
	}
	logger.SetLogger(logger.New(cfg.Logger))
	log := logger.GetLogger().Component("main")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	components, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to build keyword service")
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.WithError(err).Warn("Failed to release resources cleanly")
		}
	}()

	startTime := time.Now()
	resp, err := components.Service.Generate(ctx, seeds)
	if err != nil {
		log.WithError(err).Error("Keyword research failed")
		components.Close()
		os.Exit(1)
	}

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			log.WithError(err).Error("Failed to encode response")
		}
		return
	}
	printSummary(resp, time.Since(startTime))
}

// parseSeeds reads "term:category,term" into manual seeds. An empty list
// means the registry picks the seeds.
func parseSeeds(raw string) ([]models.Seed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var seeds []models.Seed
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		term, category, _ := strings.Cut(part, ":")
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, fmt.Errorf("seed %q has no term", part)
		}
		seeds = append(seeds, models.Seed{
			Term:     term,
			Weight:   1,
			Category: strings.TrimSpace(category),
		})
	}
	return seeds, nil
}

func printSummary(resp *models.GenerateResponse, duration time.Duration) {
	fmt.Printf("\n=== Keyword Research Results ===\n")
	fmt.Printf("Run: %s\n", resp.RunID)
	fmt.Printf("Duration: %s\n", duration.Round(time.Millisecond))

	terms := make([]string, 0, len(resp.Seeds))
	for _, s := range resp.Seeds {
		terms = append(terms, s.Term)
	}
	fmt.Printf("Seeds: %s\n", strings.Join(terms, ", "))

	if len(resp.Results) == 0 {
		fmt.Printf("\nNo seed produced qualifying suggestions.\n")
		return
	}

	for i, result := range resp.Results {
		trend := ""
		if result.IsTrend {
			trend = " [trending]"
		}
		fmt.Printf("\n%d. %s (%s)%s score=%.0f difficulty=%s\n",
			i+1, result.Term, result.Category, trend, result.Score, result.Difficulty)

		for _, s := range result.Suggestions {
			fmt.Printf("   - %-50s %5.1f  %-6s %-7s %s\n", s.Keyword, s.Score, s.Difficulty, s.Volume, s.Intent)
		}
		if top := result.Top(); top != nil {
			if top.Strategy != "" {
				fmt.Printf("   Strategy: %s\n", top.Strategy)
			}
			if top.SerpAnalysis != nil && len(top.SerpAnalysis.ContentGaps) > 0 {
				fmt.Printf("   Content gaps: %s\n", strings.Join(top.SerpAnalysis.ContentGaps, "; "))
			}
		}
		if len(result.PeopleAlsoAsk) > 0 {
			fmt.Printf("   People also ask: %s\n", strings.Join(result.PeopleAlsoAsk, " | "))
		}
	}
}

func printUsage() {
	fmt.Println("keyword-scout: one-shot keyword research")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./keyword-scout [OPTIONS]")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -seeds string     Manual seeds, e.g. \"roth ira:retirement,hsa limits\" (env: KEYWORDS_SEEDS)")
	fmt.Println("    -config string    YAML configuration file (env: KEYWORDS_CONFIG)")
	fmt.Println("    -debug            Enable debug logging (env: DEBUG)")
	fmt.Println("    -json             Print the full response as JSON (env: KEYWORDS_JSON)")
	fmt.Println("    -timeout duration Maximum run duration (default: 5m)")
	fmt.Println("    -help             Show this help message")
	fmt.Println("")
	fmt.Println("Any configuration key can be overridden with KEYWORDS_<SECTION>_<KEY>,")
	fmt.Println("e.g. KEYWORDS_SERP_MAX_CALLS=1 or KEYWORDS_STORAGE_DRIVER=sqlite.")
}
