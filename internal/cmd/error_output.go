package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jedrzejboczar/rust-type-sizes/internal/output"
	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(errorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

// buildErrorEnvelope classifies an error for structured output. The parser's
// taxonomy maps onto the envelope so callers scripting the CLI can tell a
// broken invocation from a compiler-format drift.
func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"category": "system",
		"type":     "error",
	}

	var malformed sizes.MalformedInputError
	if errors.As(err, &malformed) {
		errMap["type"] = "malformed_input"
		errMap["category"] = "input"
		errMap["line"] = malformed.LineNo
		errMap["field"] = malformed.Field
	}

	var structural sizes.StructuralError
	if errors.As(err, &structural) {
		errMap["type"] = "structural"
		errMap["category"] = "input"
		errMap["line"] = structural.LineNo
	}

	var empty sizes.EmptyInputError
	if errors.As(err, &empty) {
		errMap["type"] = "empty_input"
		errMap["category"] = "user"
	}

	return map[string]interface{}{"error": errMap}
}
