package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/panuhen/spotify-mcp/internal/logging"
	"github.com/panuhen/spotify-mcp/internal/result"
)

// Handler runs one tool. An error means the arguments could not be decoded
// into the tool's input; anything else is reported through the Result.
type Handler func(ctx context.Context, args json.RawMessage) (result.Result, error)

// ErrMissingHandler is returned when a catalog entry has no handler.
var ErrMissingHandler = errors.New("tool has no handler")

type entry struct {
	tool    Tool
	schema  *jsonschema.Resolved
	handler Handler
}

// Dispatcher routes tool calls by name. It is built once and holds no
// mutable state, so calls may run concurrently.
type Dispatcher struct {
	tools   []Tool
	entries map[string]entry
	logger  *log.Logger
}

// NewDispatcher binds every tool to its handler. Handlers for tools not in
// tools are ignored, which is how optional tools stay uncallable.
func NewDispatcher(tools []Tool, handlers map[string]Handler, logger *log.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = log.Default()
	}

	d := &Dispatcher{
		tools:   tools,
		entries: make(map[string]entry, len(tools)),
		logger:  logger,
	}

	for _, t := range tools {
		h, ok := handlers[t.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHandler, t.Name)
		}
		resolved, err := t.InputSchema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolving schema for %s: %w", t.Name, err)
		}
		d.entries[t.Name] = entry{tool: t, schema: resolved, handler: h}
	}

	return d, nil
}

// Tools returns the catalog in advertised order.
func (d *Dispatcher) Tools() []Tool {
	return d.tools
}

// Call runs the named tool with raw JSON arguments. It always returns exactly
// one Result: unknown tools, invalid arguments and handler panics all come
// back as failures.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (res result.Result) {
	e, ok := d.entries[name]
	if !ok {
		return result.Errorf("Unknown tool: %s", name)
	}

	logger := logging.With(d.logger, "tool", name, "call_id", logging.CallID())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("tool panicked", "panic", r)
			res = result.Errorf("%v", r)
		}
		if f, failed := res.(result.Failure); failed {
			logger.Warn("tool failed", "error", f.Error, "status", f.Status, "duration", time.Since(start))
			return
		}
		logger.Debug("tool call", "duration", time.Since(start))
	}()

	instance, err := decodeArguments(args)
	if err != nil {
		return invalidArguments(name, err)
	}
	clamp(e.tool.InputSchema, instance)

	if err := e.schema.Validate(instance); err != nil {
		return invalidArguments(name, err)
	}

	normalized, err := json.Marshal(instance)
	if err != nil {
		return invalidArguments(name, err)
	}

	out, err := e.handler(ctx, normalized)
	if err != nil {
		return invalidArguments(name, err)
	}
	return out
}

// CallText runs the tool and serializes its result for the wire.
func (d *Dispatcher) CallText(ctx context.Context, name string, args json.RawMessage) string {
	return Encode(d.Call(ctx, name, args))
}

// Encode renders r as indented JSON.
func Encode(r result.Result) string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		data, _ = json.MarshalIndent(result.Errorf("encoding result: %v", err), "", "  ")
	}
	return string(data)
}

func invalidArguments(name string, err error) result.Failure {
	return result.Errorf("Invalid arguments for %s: %v", name, err)
}

// decodeArguments parses the raw arguments. Absent or null arguments are an
// empty object.
func decodeArguments(args json.RawMessage) (map[string]any, error) {
	if len(args) == 0 || string(args) == "null" {
		return map[string]any{}, nil
	}
	var instance map[string]any
	if err := json.Unmarshal(args, &instance); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if instance == nil {
		instance = map[string]any{}
	}
	return instance, nil
}

// clamp pulls bounded numeric arguments into their declared range, so an
// out-of-range volume becomes the nearest valid volume instead of an error.
func clamp(schema *jsonschema.Schema, instance map[string]any) {
	for key, prop := range schema.Properties {
		if prop == nil || (prop.Type != "integer" && prop.Type != "number") {
			continue
		}
		v, ok := instance[key].(float64)
		if !ok {
			continue
		}
		if prop.Minimum != nil && v < *prop.Minimum {
			v = *prop.Minimum
		}
		if prop.Maximum != nil && v > *prop.Maximum {
			v = *prop.Maximum
		}
		instance[key] = v
	}
}
