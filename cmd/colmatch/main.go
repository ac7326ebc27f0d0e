// Package main is the colmatch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smartetl/colmatch/internal/config"
	"github.com/smartetl/colmatch/internal/embedding"
	"github.com/smartetl/colmatch/internal/extract"
	"github.com/smartetl/colmatch/internal/fields"
	"github.com/smartetl/colmatch/internal/metrics"
	"github.com/smartetl/colmatch/internal/scoring"
	"github.com/smartetl/colmatch/internal/server"
	"github.com/smartetl/colmatch/internal/storage"
	"github.com/smartetl/colmatch/pkg/utils"
)

var version = "1.0.0"

const defaultConfigPath = "/usr/local/etc/colmatch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path actually loaded. A missing
// default config falls back to built-in defaults.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "score":
		runScore()
	case "extract":
		runExtract()
	case "fields":
		runFields()
	case "health":
		runHealth()
	case "version", "--version", "-v":
		fmt.Printf("colmatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-request timing, provider state changes)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.ModelID),
	)

	provider, err := embedding.NewProvider(&cfg.Embedding, logger)
	if err != nil {
		logger.Fatal("Failed to configure embedding provider", zap.Error(err))
	}
	defer provider.Close()

	if cfg.Embedding.Warmup {
		// Warm-up failure is not fatal: the lazy provider retries on demand.
		if err := provider.Warm(context.Background()); err != nil {
			logger.Warn("model warmup failed, will retry on first request", zap.Error(err))
		}
	}

	var dictionary *fields.Dictionary
	if cfg.Fields.DictionaryPath != "" {
		dictionary, err = fields.Load(cfg.Fields.DictionaryPath, logger)
		if err != nil {
			logger.Fatal("Failed to load field dictionary", zap.Error(err))
		}
		defer dictionary.Close()
		if cfg.Fields.Watch {
			if err := dictionary.Watch(); err != nil {
				logger.Fatal("Failed to watch field dictionary", zap.Error(err))
			}
		}
	}

	var audit *storage.AuditStore
	if cfg.Audit.Enabled {
		audit, err = storage.NewAuditStore(cfg.Audit.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open audit store", zap.Error(err))
		}
		defer audit.Close()
	}

	scorer := scoring.NewService(provider, logger)
	srv := server.NewServer(scorer, provider, dictionary, audit,
		metrics.NewCollector(), &cfg.Server, version, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:3009", "colmatch server URL")
	fieldsArg := fs.String("fields", "", "comma-separated canonical fields (default: fetch from server)")
	lexical := fs.Bool("lexical", false, "use edit-distance scoring instead of embeddings")
	_ = fs.Parse(os.Args[2:])

	headers := fs.Args()
	if len(headers) == 0 {
		fmt.Println("Usage: colmatch score [-server URL] [-fields a,b,c] [-lexical] <header> [header...]")
		os.Exit(1)
	}

	canonical := splitFieldsArg(*fieldsArg)
	if len(canonical) == 0 {
		var err error
		canonical, err = fetchFields(*serverURL)
		if err != nil {
			fmt.Printf("No -fields given and fetching the server dictionary failed: %v\n", err)
			os.Exit(1)
		}
	}

	path := "/similarity/headers"
	if *lexical {
		path = "/similarity/lexical"
	}
	body, _ := json.Marshal(map[string][]string{
		"headers":         headers,
		"canonicalFields": canonical,
	})
	resp, err := http.Post(*serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var out struct {
		Model        string      `json:"model"`
		Similarities [][]float64 `json:"similarities"`
		Error        string      `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Printf("Failed to decode response: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Server error (%d): %s\n", resp.StatusCode, out.Error)
		os.Exit(1)
	}

	fmt.Printf("Model: %s\n\n", out.Model)
	fmt.Print(formatScoreTable(headers, canonical, out.Similarities))
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fmt.Println("Usage: colmatch extract <file.csv|file.tsv|file.xlsx>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to read %s: %v\n", path, err)
		os.Exit(1)
	}
	headers, err := extract.HeaderRow(content, filepath.Ext(path))
	if err != nil {
		fmt.Printf("Failed to extract headers: %v\n", err)
		os.Exit(1)
	}
	for _, h := range headers {
		fmt.Println(h)
	}
}

func runFields() {
	fs := flag.NewFlagSet("fields", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:3009", "colmatch server URL")
	_ = fs.Parse(os.Args[2:])

	canonical, err := fetchFields(*serverURL)
	if err != nil {
		fmt.Printf("Failed to fetch fields: %v\n", err)
		os.Exit(1)
	}
	for _, f := range canonical {
		fmt.Println(f)
	}
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:3009", "colmatch server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/healthz")
	if err != nil {
		fmt.Printf("unhealthy: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var out map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("unhealthy (%d): %s\n", resp.StatusCode, out["error"])
		os.Exit(1)
	}
	fmt.Printf("ok (model: %s)\n", out["model"])
}

func fetchFields(serverURL string) ([]string, error) {
	resp, err := http.Get(serverURL + "/fields")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	var out struct {
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Fields, nil
}

// splitFieldsArg splits a comma-separated field list, trimming whitespace and
// dropping empty entries.
func splitFieldsArg(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// formatScoreTable renders the similarity matrix with the best match per
// header marked.
func formatScoreTable(headers, canonical []string, matrix [][]float64) string {
	var b strings.Builder
	for i, h := range headers {
		if i >= len(matrix) {
			break
		}
		fmt.Fprintf(&b, "%s\n", h)
		best := bestMatch(matrix[i])
		for j, f := range canonical {
			if j >= len(matrix[i]) {
				break
			}
			marker := " "
			if j == best {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s %-24s %.3f\n", marker, f, matrix[i][j])
		}
	}
	return b.String()
}

// bestMatch returns the index of the highest score in row, or -1 for an empty row.
func bestMatch(row []float64) int {
	best := -1
	for j, s := range row {
		if best == -1 || s > row[best] {
			best = j
		}
	}
	return best
}

func printUsage() {
	fmt.Println(`colmatch - semantic header mapping sidecar for Smart-ETL

Usage:
  colmatch server [-config path] [-debug]     Start the scoring server
  colmatch score [-server URL] [-fields a,b]  Score headers against canonical fields
  colmatch extract <file>                     Print the header row of a CSV/TSV/XLSX file
  colmatch fields [-server URL]               List the server's canonical fields
  colmatch health [-server URL]               Check server health (forces model load)
  colmatch version                            Print version
  colmatch help                               Show this help

Examples:
  colmatch server -config ./config.yaml
  colmatch score -fields name,email,phone customer_name email_address
  colmatch extract orders.xlsx`)
}
