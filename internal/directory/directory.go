// Package directory resolves assignee names to email addresses.
package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Directory is a read-only name fragment -> email mapping. The zero value is
// an empty directory.
type Directory struct {
	keys   []string // sorted, for a deterministic first match
	emails map[string]string
}

// New copies m into a Directory.
func New(m map[string]string) *Directory {
	d := &Directory{emails: make(map[string]string, len(m))}
	for k, v := range m {
		d.emails[k] = v
		d.keys = append(d.keys, k)
	}
	sort.Strings(d.keys)
	return d
}

// Lookup returns the email of the first key contained in person.
func (d *Directory) Lookup(person string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, k := range d.keys {
		if strings.Contains(person, k) {
			return d.emails[k], true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Parse validates data against the email map schema and builds a Directory.
func Parse(data []byte) (*Directory, error) {
	if err := validateJSONAgainstSchema(emailMapSchema(), data); err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal email map: %w", err)
	}
	return New(m), nil
}

// Load reads the email map at path. A missing file yields an empty directory.
func Load(path string, logger *slog.Logger) (*Directory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return New(nil), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("email map not found", "path", path)
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read email map: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("email map %s: %w", path, err)
	}
	logger.Debug("email map loaded", "path", path, "entries", d.Len())
	return d, nil
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
