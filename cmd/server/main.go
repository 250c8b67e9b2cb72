// Command server runs the OpenAPI/Swagger MCP navigator: it ingests one
// specification file in batch, then serves searchEndpoints/getSchema/
// getExample over MCP (stdio by default, or a debug HTTP surface with
// -mode=http). Adapted from the teacher's cmd/server/main.go flag/signal/
// graceful-shutdown shape, trimmed to this server's single transport need
// (no websocket hub, no GraphQL gateway, no Chi API router).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"openapi-mcp-navigator/internal/config"
	"openapi-mcp-navigator/internal/engine"
	"openapi-mcp-navigator/internal/health"
	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/logging"
	"openapi-mcp-navigator/internal/mcpwire"
	"openapi-mcp-navigator/internal/metrics"
	"openapi-mcp-navigator/internal/normalize"
	"openapi-mcp-navigator/internal/parser"
	"openapi-mcp-navigator/internal/results"
	"openapi-mcp-navigator/internal/store"
)

func main() {
	var (
		mode     = flag.String("mode", "stdio", "server mode: stdio or http")
		addr     = flag.String("addr", ":8090", "HTTP debug address (mode=http only)")
		specPath = flag.String("spec", "", "path to the OpenAPI/Swagger file to ingest at startup")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	level := logging.INFO
	if cfg.LogLevel == "debug" {
		level = logging.DEBUG
	}
	logger := logging.New(level)

	st, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *specPath != "" {
		if err := ingestFile(ctx, st, logger, *specPath); err != nil {
			log.Fatalf("ingesting %s: %v", *specPath, err)
		}
	}

	idx := index.New()
	if err := rebuildIndex(ctx, st, idx); err != nil {
		log.Fatalf("building index: %v", err)
	}

	proc := results.New(cfg.Search.CacheSize, cfg.Search.CacheTTL, cfg.Search.DefaultPerPage, cfg.Search.MaxPerPage)
	reg := metrics.New()
	eng := engine.New(st, idx, proc, cfg, logger, reg)

	checker := health.New(5 * time.Second)
	checker.Register("store", func(ctx context.Context) (health.Status, string) {
		if _, err := st.ListDocumentIDs(ctx); err != nil {
			return health.StatusUnhealthy, err.Error()
		}
		return health.StatusHealthy, "reachable"
	})
	checker.Register("index", func(ctx context.Context) (health.Status, string) {
		if idx.Current() == nil {
			return health.StatusUnhealthy, "no snapshot published"
		}
		return health.StatusHealthy, fmt.Sprintf("%d endpoints, %d schemas", len(idx.Current().EndpointOrder), len(idx.Current().SchemaOrder))
	})

	switch *mode {
	case "stdio":
		logger.Info("starting stdio transport")
		srv := mcpwire.NewServer(os.Stdin, os.Stdout, eng, logger)
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("stdio transport failed: %v", err)
		}

	case "http":
		logger.Info("starting http debug transport", "addr", *addr)
		if err := runHTTP(ctx, *addr, eng, checker, reg, logger); err != nil {
			log.Fatalf("http transport failed: %v", err)
		}

	default:
		log.Fatalf("invalid mode %q: use stdio or http", *mode)
	}
}

func ingestFile(ctx context.Context, st *store.Store, logger logging.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sourceBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := parser.Parse(ctx, f, parser.DefaultOptions())
	if err != nil {
		return err
	}
	for _, d := range result.Errors {
		logger.Warn("parse error", "pointer", d.Pointer, "message", d.Message)
	}

	doc := normalize.Normalize(result.Doc, path, sourceBytes)
	id, err := st.IngestDocument(ctx, doc)
	if err != nil {
		return err
	}
	logger.Info("ingested document", "document_id", id, "endpoints", len(doc.Endpoints), "schemas", len(doc.Schemas))
	return nil
}

func rebuildIndex(ctx context.Context, st *store.Store, idx *index.Indexer) error {
	endpoints, err := st.AllEndpoints(ctx)
	if err != nil {
		return err
	}
	schemas, err := st.AllSchemas(ctx)
	if err != nil {
		return err
	}
	idx.Rebuild(endpoints, schemas)
	return nil
}

func runHTTP(ctx context.Context, addr string, eng *engine.Engine, checker *health.Checker, reg *metrics.Registry, logger logging.Logger) error {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		report := checker.Check(req.Context())
		w.Header().Set("Content-Type", "application/json")
		if report.Overall != health.StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}).Methods(http.MethodGet)

	r.HandleFunc("/metrics/tools", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reg.Snapshots())
	}).Methods(http.MethodGet)

	r.HandleFunc("/mcp", func(w http.ResponseWriter, req *http.Request) {
		srv := mcpwire.NewServer(req.Body, w, eng, logger)
		w.Header().Set("Content-Type", "application/json")
		if err := srv.Run(req.Context()); err != nil && req.Context().Err() == nil {
			logger.Error("mcp http handler error", "error", err.Error())
		}
	}).Methods(http.MethodPost)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
