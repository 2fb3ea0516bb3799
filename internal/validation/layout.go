// Package validation checks session node layout files against an embedded
// JSON schema before they are seeded into the ledger.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// DefaultRespawnDelaySeconds applies to nodes whose layout omits a delay
const DefaultRespawnDelaySeconds = 300

const layoutSchemaURL = "https://oceanx.game/schemas/session_layout.schema.json"

//go:embed schemas/session_layout.schema.json
var layoutSchema []byte

// SessionLayout is the on-disk description of a session's nodes
type SessionLayout struct {
	SessionID string       `json:"sessionId"`
	Nodes     []LayoutNode `json:"nodes"`
}

// LayoutNode is one node in a layout file
type LayoutNode struct {
	NodeID              string          `json:"nodeId"`
	ResourceType        string          `json:"resourceType"`
	Amount              int             `json:"amount"`
	Position            domain.Position `json:"position"`
	RespawnDelaySeconds *int            `json:"respawnDelaySeconds,omitempty"`
	Rarity              string          `json:"rarity,omitempty"`
}

// LayoutLoader validates and decodes layout files
type LayoutLoader struct {
	schema *jsonschema.Schema
}

// NewLayoutLoader compiles the embedded layout schema
func NewLayoutLoader() (*LayoutLoader, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(layoutSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(layoutSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add layout schema: %w", err)
	}
	schema, err := compiler.Compile(layoutSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile layout schema: %w", err)
	}
	return &LayoutLoader{schema: schema}, nil
}

// Parse validates data and decodes it. Node ids must be unique within the layout.
func (l *LayoutLoader) Parse(data []byte) (*SessionLayout, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON data: %w", err)
	}
	if err := l.schema.Validate(inst); err != nil {
		return nil, formatValidationError(err)
	}

	var layout SessionLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	seen := make(map[string]bool, len(layout.Nodes))
	for _, n := range layout.Nodes {
		if seen[n.NodeID] {
			return nil, fmt.Errorf("%w: duplicate node id %q", domain.ErrInvalidInput, n.NodeID)
		}
		seen[n.NodeID] = true
	}
	return &layout, nil
}

// LoadFile reads and parses one layout file
func (l *LayoutLoader) LoadFile(path string) (*SessionLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	layout, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return layout, nil
}

// LoadDir parses every *.json file in dir, in name order. All files are
// checked; the returned error joins every failure.
func (l *LayoutLoader) LoadDir(dir string) ([]SessionLayout, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var layouts []SessionLayout
	var errs []error
	for _, p := range paths {
		layout, err := l.LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		layouts = append(layouts, *layout)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return layouts, nil
}

// ResourceNodes converts the layout into fresh, available ledger nodes
func (s SessionLayout) ResourceNodes() []domain.ResourceNode {
	nodes := make([]domain.ResourceNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		delay := DefaultRespawnDelaySeconds
		if n.RespawnDelaySeconds != nil {
			delay = *n.RespawnDelaySeconds
		}
		rarity := domain.RarityCommon
		if n.Rarity != "" {
			rarity = domain.Rarity(n.Rarity)
		}
		nodes = append(nodes, domain.ResourceNode{
			SessionID:           s.SessionID,
			NodeID:              n.NodeID,
			ResourceType:        domain.ResourceType(n.ResourceType),
			ResourceAmount:      n.Amount,
			Position:            n.Position,
			Status:              domain.NodeAvailable,
			RespawnDelaySeconds: delay,
			Rarity:              rarity,
		})
	}
	return nodes
}

func formatValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		var lines []string
		collectErrors(validationErr, &lines)
		return fmt.Errorf("%w: layout schema validation failed:\n%s", domain.ErrInvalidInput, strings.Join(lines, "\n"))
	}
	return fmt.Errorf("validation error: %w", err)
}

func collectErrors(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) == 0 {
		*lines = append(*lines, formatError(err))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, lines)
	}
}

func formatError(err *jsonschema.ValidationError) string {
	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}

	keywords := ""
	if err.ErrorKind != nil {
		keywords = strings.Join(err.ErrorKind.KeywordPath(), ".")
	}
	if keywords == "" {
		return fmt.Sprintf("  - at %s: validation failed", location)
	}
	return fmt.Sprintf("  - at %s: %s validation failed", location, keywords)
}
