// Package collection reads and writes the chunk collection JSON artifact.
package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/xeipuuv/gojsonschema"
)

// SupportedVersions is the collection format range this build can read.
const SupportedVersions = "^1.0.0"

// ValidationError lists every problem found in a collection file.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid collection %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

var schema = gojsonschema.NewGoLoader(map[string]any{
	"type":     "object",
	"required": []string{"chunks", "metadata"},
	"properties": map[string]any{
		"chunks": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"chunk_id", "text", "source_path", "slug", "title", "order_index"},
				"properties": map[string]any{
					"chunk_id":    map[string]any{"type": "string", "pattern": `^doc-\d{3,}-\d{4,}$`},
					"text":        map[string]any{"type": "string", "minLength": 1},
					"source_path": map[string]any{"type": "string", "minLength": 1},
					"slug":        map[string]any{"type": "string"},
					"title":       map[string]any{"type": "string"},
					"order_index": map[string]any{"type": "integer", "minimum": 1},
				},
			},
		},
		"metadata": map[string]any{
			"type":     "object",
			"required": []string{"generated_at", "total_documents", "total_chunks", "version"},
			"properties": map[string]any{
				"generated_at":    map[string]any{"type": "string"},
				"total_documents": map[string]any{"type": "integer", "minimum": 0},
				"total_chunks":    map[string]any{"type": "integer", "minimum": 0},
				"version":         map[string]any{"type": "string"},
			},
		},
	},
})

// Encode writes c as indented JSON without HTML escaping.
func Encode(c *document.Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes c to path atomically, creating parent directories. A
// failed write leaves any existing file untouched.
func WriteFile(path string, c *document.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// ReadFile loads and validates a collection file.
func ReadFile(path string) (*document.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	return Decode(path, data)
}

// Decode validates data against the collection schema and version range
// before unmarshaling it. name is used in error messages.
func Decode(name string, data []byte) (*document.Collection, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ValidationError{Path: name, Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &ValidationError{Path: name, Problems: problems}
	}

	var c document.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &ValidationError{Path: name, Problems: []string{err.Error()}}
	}
	if err := checkVersion(c.Metadata.Version); err != nil {
		return nil, &ValidationError{Path: name, Problems: []string{err.Error()}}
	}
	return &c, nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("metadata.version %q: %w", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("metadata.version %s does not satisfy %s", v, SupportedVersions)
	}
	return nil
}
