// Package schema validates inbound commands and outbound event payloads
// against the JSON Schema documents embedded in schemas/.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/urmzd/wardwatch/pkg/event"
)

// Command is the schema name of a control request body.
const Command = "command"

var ErrUnknownSchema = errors.New("unknown schema")

//go:embed schemas/*.json
var documents embed.FS

// Validator validates JSON documents against the embedded schemas.
// Compiled schemas are cached by name.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks the raw JSON doc against the named schema.
func (v *Validator) Validate(name string, doc []byte) error {
	compiled, err := v.compile(name)
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return compiled.Validate(inst)
}

// ValidateEvent checks the wire form of ev against the schema named after it.
func (v *Validator) ValidateEvent(ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ev.Name(), err)
	}
	return v.Validate(ev.Name(), payload)
}

func (v *Validator) compile(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	if s, ok := v.cache[name]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[name]; ok {
		return s, nil
	}

	raw, err := documents.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema %s: %w", name, err)
	}

	url := name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", name, err)
	}

	v.cache[name] = compiled
	return compiled, nil
}
