package parser

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
)

// Format identifies the source document's serialization.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

// Result is the full output of one parse run: the RawDocument plus every
// diagnostic collected along the way and the run's Metrics.
type Result struct {
	Doc      *RawDocument
	Errors   []Diagnostic
	Warnings []Diagnostic
	Metrics  Metrics
	Format   Format
}

// Parse sniffs the source format and dispatches to ParseJSON or ParseYAML.
// When opts.DeepValidate is set, the raw bytes are additionally run through
// kin-openapi's loader/validator (OpenAPI 3.x documents only) and any
// validation failure is appended as a warning rather than failing the parse
// outright, since the streaming pass above is the authoritative surface for
// the MCP tools (spec §4.1 "DeepValidate").
func Parse(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	br := bufio.NewReader(r)
	// Peek does not consume: br still yields the peeked bytes first.
	peeked, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, &ErrParseFailed{Reason: err.Error()}
	}

	format := sniffFormat(peeked)

	var full io.Reader = br

	var data []byte
	if opts.DeepValidate {
		data, err = io.ReadAll(full)
		if err != nil {
			return nil, &ErrParseFailed{Reason: err.Error()}
		}
		full = bytes.NewReader(data)
	}

	var doc *RawDocument
	var errs, warns []Diagnostic
	var metrics Metrics

	switch format {
	case FormatYAML:
		doc, errs, warns, metrics, err = ParseYAML(full, opts)
	default:
		doc, errs, warns, metrics, err = ParseJSON(full, opts)
		format = FormatJSON
	}
	if err != nil {
		return &Result{Errors: errs, Warnings: warns, Metrics: metrics, Format: format}, err
	}

	if opts.DeepValidate {
		if w := deepValidate(ctx, data, format); w != "" {
			warns = append(warns, Diagnostic{Pointer: "/", Message: w})
		}
	}

	return &Result{Doc: doc, Errors: errs, Warnings: warns, Metrics: metrics, Format: format}, nil
}

func sniffFormat(peek []byte) Format {
	trimmed := bytes.TrimLeft(peek, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// deepValidate runs kin-openapi's loader and Validate() as an optional,
// non-authoritative second opinion on OpenAPI 3.x documents. Swagger 2.0
// sources and any loader error are reported as informational only; this
// path exists to exercise kin-openapi beyond the reference-resolution rules
// the streaming parser already enforces on its own.
func deepValidate(ctx context.Context, data []byte, format Format) string {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return "deep validation skipped: " + err.Error()
	}
	if err := doc.Validate(ctx); err != nil {
		return "deep validation reported: " + err.Error()
	}
	return ""
}
