package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spoolworks/labelpress/binding"
	"github.com/spoolworks/labelpress/template"
)

// loadLayout reads and validates a template JSON file.
func loadLayout(path string) (*template.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	l, err := template.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// loadRecord reads a JSON object of field values. An empty path yields a nil
// record, which resolves templates without bind expressions.
func loadRecord(path string) (binding.Record, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec binding.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// applySets overlays --set key=value pairs onto a record. Values stay
// strings; bind functions coerce where needed.
func applySets(rec binding.Record, sets []string) (binding.Record, error) {
	if len(sets) == 0 {
		return rec, nil
	}
	if rec == nil {
		rec = binding.Record{}
	}
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		rec[k] = v
	}
	return rec, nil
}
