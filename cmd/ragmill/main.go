// Package main is the ragmill CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ragmill/ragmill/internal/chunker"
	"github.com/ragmill/ragmill/internal/cli"
	"github.com/ragmill/ragmill/internal/config"
	"github.com/ragmill/ragmill/internal/embedding"
	"github.com/ragmill/ragmill/internal/modelserver"
	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/internal/rag"
	"github.com/ragmill/ragmill/internal/retrieval"
	"github.com/ragmill/ragmill/internal/server"
	"github.com/ragmill/ragmill/internal/storage"
	"github.com/ragmill/ragmill/internal/watcher"
	"github.com/ragmill/ragmill/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/ragmill/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used, so "ragmill serve" from the project dir picks up the
// project's config. Returns the config and the path actually loaded.
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
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A .env in the working directory feeds the RAGMILL_* overlay.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "ingest":
		runIngest()
	case "query":
		runQuery()
	case "docs":
		runDocs()
	case "delete":
		runDelete()
	case "clear":
		runClear()
	case "models":
		runModels()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("ragmill version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, retrieval detail)")
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
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var inbox *watcher.Watcher
	if cfg.Watch.InboxDir != "" {
		svc := components.Service
		opts := []watcher.Option{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond),
		}
		if debugMode {
			opts = append(opts, watcher.WithLogger(logger))
		}
		inbox = watcher.NewWatcher(
			cfg.Watch.InboxDir,
			cfg.Watch.Extensions,
			func(path string) {
				if _, err := svc.IngestFile(context.Background(), path, nil); err != nil {
					logger.Warn("inbox ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				if err := svc.DeleteDocumentByName(context.Background(), filepath.Base(path)); err != nil {
					logger.Warn("inbox delete failed", zap.String("path", path), zap.Error(err))
				}
			},
			opts...,
		)
		if err := inbox.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start inbox watcher", zap.Error(err))
		}
		inbox.SyncExisting()
		logger.Info("watching inbox", zap.String("dir", cfg.Watch.InboxDir))
	}

	modelsClient, err := modelserver.NewClient(cfg.Embedding.OllamaHost)
	if err != nil {
		logger.Warn("model server client unavailable", zap.Error(err))
		modelsClient = nil
	}

	srv := server.NewServer(components.Service, modelsClient, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if inbox != nil {
		inbox.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: ragmill ingest [flags] <files...>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	failures := 0
	for _, path := range fs.Args() {
		name := filepath.Base(path)
		progress := func(fraction float64) {
			fmt.Printf("\r%s: %3.0f%%", name, fraction*100)
		}
		doc, err := components.Service.IngestFile(ctx, path, progress)
		if err != nil {
			fmt.Printf("\r%s: failed: %v\n", name, err)
			failures++
			continue
		}
		fmt.Printf("\r%s: ingested as %s (%d chunks)\n", name, doc.ID, doc.ChunkCount)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

// printQueryUsage prints query subcommand usage and retrieval hints.
func printQueryUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: ragmill query [flags] <text>\n\n")
	fmt.Fprintf(fs.Output(), "The query is all remaining arguments joined by spaces, so multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Results are chunks ranked by cosine similarity to the query.
  • --limit caps how many chunks come back.
  • --threshold drops chunks below a minimum similarity.
  • --output json emits the full response including the assembled context block.

Examples:
  ragmill query vector similarity search
  ragmill query "vector similarity search"        # same as above
  ragmill query --limit 3 --threshold 0.5 indexing
  ragmill query --output json chunk overlap
`)
}

// joinQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func joinQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// reorderArgs moves any flags (and their values) that appear after
// positional arguments to the front of the slice so flag.Parse() sees
// them. Go's flag package stops at the first non-flag argument, so
// "ragmill query some text --limit 3" would otherwise leave --limit
// unparsed.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseOutputFormat maps the -output flag value to a cli format, exiting
// on unknown values.
func parseOutputFormat(value string) cli.OutputFormat {
	switch value {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", value)
		os.Exit(1)
		return cli.OutputText
	}
}

func runQuery() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 0, "maximum results (0 = configured default)")
	threshold := fs.Float64("threshold", 0, "minimum cosine similarity (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printQueryUsage(fs) }
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		printQueryUsage(fs)
		os.Exit(1)
	}
	queryStr := joinQuery(fs.Args())
	if queryStr == "" {
		printQueryUsage(fs)
		os.Exit(1)
	}
	format := parseOutputFormat(*outputFormat)

	req := &models.RetrieveRequest{
		Query:               queryStr,
		MaxResults:          *limit,
		SimilarityThreshold: *threshold,
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running so both share one store.
		resp, err := retrieveViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteRetrieved(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	resp, err := components.Service.RetrieveContext(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRetrieved(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func retrieveViaHTTP(serverURL string, req *models.RetrieveRequest) (*models.RetrievedContext, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/retrieve", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out models.RetrievedContext
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runDocs() {
	fs := flag.NewFlagSet("docs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseOutputFormat(*outputFormat)

	var docs []*models.Document
	if *serverURL != "" {
		res, err := documentsViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing failed: %v\n", err)
			os.Exit(1)
		}
		docs = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize", zap.Error(err))
		}
		defer components.Close()
		docs, err = components.Service.ListDocuments(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteDocuments(os.Stdout, docs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func documentsViaHTTP(serverURL string) ([]*models.Document, error) {
	resp, err := http.Get(serverURL + "/api/v1/documents")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Documents []*models.Document `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Documents, nil
}

func runDelete() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: ragmill delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	if *serverURL != "" {
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/documents/"+docID, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Deletion failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Document deleted: %s\n", docID)
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Service.DeleteDocument(context.Background(), docID); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

func runClear() {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/documents", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Clear failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Println("All documents cleared.")
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Service.ClearAll(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("All documents cleared.")
}

func runModels() {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = query the model server directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseOutputFormat(*outputFormat)

	var names []string
	if *serverURL != "" {
		res, err := modelsViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing models failed: %v\n", err)
			os.Exit(1)
		}
		names = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		mc, err := modelserver.NewClient(cfg.Embedding.OllamaHost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing models failed: %v\n", err)
			os.Exit(1)
		}
		names, err = mc.ListModels(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing models failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteModels(os.Stdout, names, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func modelsViaHTTP(serverURL string) ([]string, error) {
	resp, err := http.Get(serverURL + "/api/v1/models")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Models, nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	EmbeddingBackend    string `json:"embedding_backend,omitempty"`
	EmbeddingModel      string `json:"embedding_model,omitempty"`
	EmbeddingDimensions int    `json:"embedding_dimensions,omitempty"`
	ChunkSize           int    `json:"chunk_size,omitempty"`
	ChunkOverlap        int    `json:"chunk_overlap,omitempty"`
	DatabasePath        string `json:"database_path,omitempty"`
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Documents      int                   `json:"documents"`
	Chunks         int                   `json:"chunks"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		stats, err := components.Service.Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents: stats.Documents,
			Chunks:    stats.Chunks,
			Config: &statusConfigResponse{
				EmbeddingBackend:    cfg.Embedding.Backend,
				EmbeddingModel:      cfg.Embedding.Model,
				EmbeddingDimensions: cfg.Embedding.Dimensions,
				ChunkSize:           cfg.Retrieval.ChunkSize,
				ChunkOverlap:        cfg.Retrieval.ChunkOverlap,
				DatabasePath:        cfg.Storage.DatabasePath,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(storage.DatabaseFiles(cfg.Storage.DatabasePath)...)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d   # count of ingested documents\n", status.Documents)
		fmt.Printf("chunks:             %d   # count of embedded chunks\n", status.Chunks)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # database files on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			if status.Config.EmbeddingBackend != "" {
				fmt.Printf("embedding_backend:  %s\n", status.Config.EmbeddingBackend)
			}
			if status.Config.EmbeddingModel != "" {
				fmt.Printf("embedding_model:    %s\n", status.Config.EmbeddingModel)
			}
			if status.Config.EmbeddingDimensions > 0 {
				fmt.Printf("embedding_dims:     %d\n", status.Config.EmbeddingDimensions)
			}
			if status.Config.ChunkSize > 0 {
				fmt.Printf("chunk_size:         %d\n", status.Config.ChunkSize)
			}
			if status.Config.ChunkOverlap > 0 {
				fmt.Printf("chunk_overlap:      %d\n", status.Config.ChunkOverlap)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "where to write the starter config")
	force := fs.Bool("force", false, "overwrite an existing config")
	_ = fs.Parse(os.Args[2:])

	path := *configPath
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Printf("Config already exists at %s (use -force to overwrite)\n", path)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Printf("Failed to create config directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(path, config.Default()); err != nil {
		fmt.Printf("Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote starter config to %s\n", path)
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Embedder embedding.Embedder
	Service  *rag.Service
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder := buildEmbedder(cfg, logger)
	ch := chunker.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	orch := retrieval.NewOrchestrator(ch, embedder, logger)
	svc := rag.NewService(store, orch, rag.Defaults{
		MaxResults:          cfg.Retrieval.MaxResults,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
	}, logger)

	return &Components{
		Storage:  store,
		Embedder: embedder,
		Service:  svc,
	}, nil
}

// buildEmbedder assembles the embedding stack: the configured backend,
// constructed lazily on first use so commands that never embed do not pay
// for model loading, wrapped in an LRU cache. A backend that cannot be
// constructed falls back to deterministic mock vectors so ingestion keeps
// working offline.
func buildEmbedder(cfg *config.Config, logger *zap.Logger) embedding.Embedder {
	ec := cfg.Embedding
	factory := func() (embedding.Embedder, error) {
		var (
			backend embedding.Embedder
			err     error
		)
		switch ec.Backend {
		case config.BackendOllama:
			backend, err = embedding.NewOllamaEmbedder(ec.OllamaHost, ec.Model, ec.Dimensions)
		case config.BackendONNX:
			backend, err = embedding.NewONNXEmbedder(embedding.ONNXConfig{
				ModelPath:  ec.ModelPath,
				Dimensions: ec.Dimensions,
				MaxTokens:  ec.MaxTokens,
			})
		case config.BackendMock:
			return embedding.NewMockEmbedder(ec.Dimensions), nil
		default:
			err = fmt.Errorf("unknown embedding backend %q", ec.Backend)
		}
		if err != nil {
			logger.Warn("embedding backend unavailable, using mock vectors",
				zap.String("backend", ec.Backend),
				zap.Error(err))
			return embedding.NewMockEmbedder(ec.Dimensions), nil
		}
		return backend, nil
	}
	var embedder embedding.Embedder = embedding.NewShared(ec.Dimensions, factory)
	if ec.CacheSize > 0 {
		embedder = embedding.NewCachedEmbedder(embedder, ec.CacheSize)
	}
	return embedder
}

func printUsage() {
	fmt.Println(`ragmill - Local document retrieval for RAG pipelines

Usage:
  ragmill serve [flags]            Start the HTTP server (and inbox watcher)
  ragmill ingest [flags] <files>   Ingest documents into the store
  ragmill query [flags] <text>     Retrieve chunks relevant to a query
  ragmill docs [flags]             List ingested documents
  ragmill delete [flags] <id>      Delete a document and its chunks
  ragmill clear [flags]            Delete every document
  ragmill models [flags]           List models on the local model server
  ragmill status [flags]           Show store counts and configuration
  ragmill init [flags]             Write a starter config file
  ragmill version                  Show version
  ragmill help                     Show this help

Serve Flags:
  --config string    Config file path (default: /usr/local/etc/ragmill/config.yaml)
  --debug            Enable debug logging (file events, retrieval detail)

Query Flags:
  --config string     Config file path (for direct storage mode)
  --server string     Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --limit int         Maximum results (0 = configured default)
  --threshold float   Minimum cosine similarity (0 = configured default)
  --output string     Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path

Docs/Models/Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct access.
  --output string    Output format: text or json (default: text)

Examples:
  ragmill serve
  ragmill ingest report.pdf notes.md
  ragmill query "how does chunk overlap work"
  ragmill query --limit 3 --threshold 0.5 embeddings
  ragmill docs
  ragmill delete 9f2c6f0e-8d7a-4de2-b851-1e4f0b1f2a3c
  ragmill models
  ragmill status --output json`)
}
