// Package engine implements the Request Engine (C9): it sits between the
// MCP transport and the core components, dispatching tool calls through
// validation, correlation, a resilience envelope, execution, metrics, and
// JSON-RPC response shaping (spec §4.9).
package engine

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"openapi-mcp-navigator/internal/apperrors"
	"openapi-mcp-navigator/internal/circuitbreaker"
	"openapi-mcp-navigator/internal/codegen"
	"openapi-mcp-navigator/internal/config"
	"openapi-mcp-navigator/internal/index"
	"openapi-mcp-navigator/internal/logging"
	"openapi-mcp-navigator/internal/metrics"
	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/query/suggest"
	"openapi-mcp-navigator/internal/resolver"
	"openapi-mcp-navigator/internal/results"
	"openapi-mcp-navigator/internal/store"
)

// Tool names, the public dispatch surface (spec §6).
const (
	ToolSearchEndpoints = "searchEndpoints"
	ToolGetSchema       = "getSchema"
	ToolGetExample      = "getExample"
)

// Engine wires the core components behind the resilience envelope.
type Engine struct {
	store     *store.Store
	indexer   *index.Indexer
	processor *results.Processor

	cfg     *config.Config
	log     logging.Logger
	metrics *metrics.Registry

	breaker *circuitbreaker.Breaker
	sem     *semaphore.Weighted
}

// New builds an Engine from its core collaborators.
func New(st *store.Store, idx *index.Indexer, proc *results.Processor, cfg *config.Config, log logging.Logger, reg *metrics.Registry) *Engine {
	return &Engine{
		store:     st,
		indexer:   idx,
		processor: proc,
		cfg:       cfg,
		log:       log.WithComponent("engine"),
		metrics:   reg,
		breaker:   circuitbreaker.New(circuitbreaker.Config{FailureThreshold: cfg.Breaker.FailureThreshold, SuccessThreshold: cfg.Breaker.SuccessThreshold, Timeout: cfg.Breaker.Window}),
		sem:       semaphore.NewWeighted(int64(cfg.Concurrency.MaxConcurrentTools)),
	}
}

// Execute dispatches, validates, and runs one tool call per spec §4.9,
// returning either a JSON-serializable result or a typed *apperrors.Error.
func (e *Engine) Execute(ctx context.Context, tool string, args map[string]interface{}) (interface{}, *apperrors.Error) {
	requestID := logging.NewRequestID()
	ctx = logging.WithTraceContext(ctx, requestID)
	log := e.log.WithTraceID(requestID)

	handler, timeout, retries, validationErr := e.resolveTool(tool, args)
	if validationErr != nil {
		log.Warn("validation failed", "tool", tool, "error", validationErr.Message)
		return nil, validationErr
	}

	start := time.Now()
	chain := withTimeout(timeout, tool,
		withBreaker(e.breaker,
			// retries is a retry count (spec §4.9 "up to N retries"); withRetry
			// wants a total attempt count, so the initial attempt adds one.
			withRetry(retries+1,
				withConcurrencyCap(e.sem, handler))))

	result, err := chain(ctx)
	duration := time.Since(start)

	errKind := ""
	if err != nil {
		errKind = string(err.Kind)
	}
	if alert := e.metrics.Record(tool, requestID, duration, errKind); alert != nil {
		log.Warn("response time threshold exceeded", "tool", tool, "duration_ms", duration.Milliseconds(), "threshold_ms", alert.Threshold.Milliseconds())
	}

	return result, err
}

// resolveTool dispatches the tool name (spec §4.9 step 1), validates its
// arguments (step 2), and returns a bound execute step plus its configured
// timeout/retry budget.
func (e *Engine) resolveTool(tool string, args map[string]interface{}) (step, time.Duration, int, *apperrors.Error) {
	switch tool {
	case ToolSearchEndpoints:
		req, verr := validateSearchEndpoints(args)
		if verr != nil {
			return nil, 0, 0, verr
		}
		return e.searchEndpointsStep(req), e.cfg.Tool.SearchEndpointsTimeout, e.cfg.Tool.SearchEndpointsRetries, nil

	case ToolGetSchema:
		params, verr := validateGetSchema(args)
		if verr != nil {
			return nil, 0, 0, verr
		}
		return e.getSchemaStep(params), e.cfg.Tool.GetSchemaTimeout, e.cfg.Tool.GetSchemaRetries, nil

	case ToolGetExample:
		params, verr := validateGetExample(args)
		if verr != nil {
			return nil, 0, 0, verr
		}
		return e.getExampleStep(params), e.cfg.Tool.GetExampleTimeout, e.cfg.Tool.GetExampleRetries, nil

	default:
		return nil, 0, 0, apperrors.Validation("tool", tool, "unknown tool", suggestToolName(tool))
	}
}

func (e *Engine) searchEndpointsStep(req results.SearchRequest) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		snap := e.indexer.Current()
		schemesByName, err := e.allSecuritySchemes(ctx)
		if err != nil {
			return nil, err
		}
		resp := e.processor.Search(snap, schemesByName, req)
		return resp, nil
	}
}

func (e *Engine) getSchemaStep(params getSchemaParams) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		name := resolver.NormalizeComponentName(params.ComponentName)
		snap := e.indexer.Current()

		var documentID int64
		found := false
		for _, key := range snap.SchemaOrder {
			s := snap.Schemas[key]
			if s.Name == name {
				documentID = s.DocumentID
				found = true
				break
			}
		}
		if !found {
			return nil, apperrors.NotFound("schema", name, nearestSchemaNames(snap, name))
		}

		doc, derr := e.store.GetDocument(ctx, documentID)
		if derr != nil {
			if ae, ok := derr.(*apperrors.Error); ok {
				return nil, ae
			}
			return nil, apperrors.Internal(derr.Error())
		}

		opts := params.Opts
		if !params.ResolveDependencies {
			opts.MaxDepth = 1
		}

		res, rerr := resolver.Resolve(doc, name, opts)
		if rerr != nil {
			if ae, ok := rerr.(*apperrors.Error); ok {
				return nil, ae
			}
			return nil, apperrors.Internal(rerr.Error())
		}
		return res, nil
	}
}

func (e *Engine) getExampleStep(params getExampleParams) step {
	return func(ctx context.Context) (interface{}, *apperrors.Error) {
		snap := e.indexer.Current()

		ep, found := findEndpoint(snap, params.Endpoint, params.Method)
		if !found {
			return nil, apperrors.NotFound("endpoint", params.Endpoint, nil)
		}

		doc, derr := e.store.GetDocument(ctx, ep.DocumentID)
		if derr != nil {
			if ae, ok := derr.(*apperrors.Error); ok {
				return nil, ae
			}
			return nil, apperrors.Internal(derr.Error())
		}

		schemasByName := make(map[string]model.Schema, len(doc.Schemas))
		for _, s := range doc.Schemas {
			schemasByName[s.Name] = s
		}
		schemesByName := make(map[string]model.SecurityScheme, len(doc.SecuritySchemes))
		for _, s := range doc.SecuritySchemes {
			schemesByName[s.Name] = s
		}

		snippet, gerr := codegen.Generate(ep, schemasByName, schemesByName, params.Opts)
		if gerr != nil {
			if ae, ok := gerr.(*apperrors.Error); ok {
				return nil, ae
			}
			return nil, apperrors.Internal(gerr.Error())
		}
		return snippet, nil
	}
}

func findEndpoint(snap *index.Snapshot, endpoint, method string) (model.Endpoint, bool) {
	for _, key := range snap.EndpointOrder {
		ep := snap.Endpoints[key]
		if ep.OperationID == endpoint {
			return ep, true
		}
		if ep.Path == endpoint && (method == "" || strings.EqualFold(ep.Method, method)) {
			return ep, true
		}
	}
	return model.Endpoint{}, false
}

func nearestSchemaNames(snap *index.Snapshot, name string) []string {
	vocabulary := make([]string, 0, len(snap.SchemaOrder))
	seen := map[string]bool{}
	for _, key := range snap.SchemaOrder {
		n := snap.Schemas[key].Name
		if !seen[n] {
			seen[n] = true
			vocabulary = append(vocabulary, n)
		}
	}
	return suggest.Spelling(name, vocabulary, 5)
}

func (e *Engine) allSecuritySchemes(ctx context.Context) (map[string]model.SecurityScheme, *apperrors.Error) {
	ids, err := e.store.ListDocumentIDs(ctx)
	if err != nil {
		if ae, ok := err.(*apperrors.Error); ok {
			return nil, ae
		}
		return nil, apperrors.Internal(err.Error())
	}
	out := map[string]model.SecurityScheme{}
	for _, id := range ids {
		doc, err := e.store.GetDocument(ctx, id)
		if err != nil {
			continue
		}
		for _, s := range doc.SecuritySchemes {
			out[s.Name] = s
		}
	}
	return out, nil
}
