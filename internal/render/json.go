package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dejo1307/hdrgraph/internal/catalog"
	"github.com/dejo1307/hdrgraph/internal/order"
)

// JSON writes the value as one indented document.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Render(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %T: %w", v, err)
	}
	return nil
}

// JSONL writes one compact JSON object per line. Orders and catalogs are
// written one entry per line, and an order's external names follow its
// entries without a position. Everything else is a single line.
type JSONL struct{}

func (JSONL) Name() string { return "jsonl" }

func (JSONL) Render(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	switch v := v.(type) {
	case *order.Order:
		for i, e := range v.Entries {
			rec := struct {
				Position int `json:"position"`
				order.Entry
			}{i + 1, e}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding entry %q: %w", e.Name, err)
			}
		}
		for _, name := range v.Externals {
			rec := struct {
				External string `json:"external"`
			}{name}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding external %q: %w", name, err)
			}
		}
		return nil
	case []catalog.Entry:
		for _, e := range v {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("encoding entry %q: %w", e.QualifiedName(), err)
			}
		}
		return nil
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %T: %w", v, err)
	}
	return nil
}
