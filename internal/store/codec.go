package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/covenant-go/internal/covenant"
)

//go:embed state.schema.json
var stateSchemaJSON string

const stateSchemaURL = "covenant-state.schema.json"

// ErrCorrupt matches any CorruptError via errors.Is.
var ErrCorrupt = covenant.ErrCorruptState

// CorruptError reports a slot that exists but does not hold a valid record.
type CorruptError struct {
	Location string // file path or db key
	Path     string // location inside the record, e.g. "data.2024-01-05"
	Err      error
}

func (e *CorruptError) Error() string {
	where := e.Location
	if e.Path != "" {
		where += ": " + e.Path
	}
	if where == "" {
		return fmt.Sprintf("malformed state: %v", e.Err)
	}
	return fmt.Sprintf("malformed state %s: %v", where, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCorrupt) hold for every CorruptError.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func stateSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(stateSchemaURL, strings.NewReader(stateSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add state schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(stateSchemaURL)
	})
	return schema, schemaErr
}

// Encode serializes state with 2-space indentation and a trailing newline.
func Encode(state *covenant.State) ([]byte, error) {
	if state == nil {
		state = covenant.NewState()
	}
	out := state.Clone()
	if !out.Configured() {
		out.StartDate = nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a persisted record. Empty input yields
// (nil, nil). Anything unparsable or off-schema yields a *CorruptError.
func Decode(data []byte) (*covenant.State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Err: err}
	}

	sch, err := stateSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var st covenant.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &CorruptError{Err: err}
	}
	// Records without a start date carry nothing worth keeping.
	if !st.Configured() {
		return covenant.NewState(), nil
	}
	if st.Days == nil {
		st.Days = make(map[string]covenant.DayRecord)
	}
	return &st, nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &CorruptError{Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &CorruptError{
		Path: jsonPointerToPath(leaf.InstanceLocation),
		Err:  errors.New(leaf.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
