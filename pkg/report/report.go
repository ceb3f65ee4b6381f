// Package report assembles the outcome of a validation run and encodes it
// as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/graph"
	"github.com/matzehuels/modcheck/pkg/rules"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q (valid: text, json, yaml)", s)
}

// Report is one validation run.
type Report struct {
	ID          uuid.UUID      `json:"id" yaml:"id"`
	Root        string         `json:"root" yaml:"root"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Stats       graph.Stats    `json:"stats" yaml:"stats"`
	Results     []rules.Result `json:"results" yaml:"results"`
	Total       int            `json:"total" yaml:"total"`
}

// New creates a report with a fresh run id.
func New(root string, stats graph.Stats, results []rules.Result) *Report {
	return &Report{
		ID:          uuid.New(),
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Stats:       stats,
		Results:     results,
		Total:       rules.Total(results),
	}
}

// Failed reports whether any rule found a violation.
func (r *Report) Failed() bool { return r.Total > 0 }

// Write encodes r in format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	}
	_, err := ParseFormat(format)
	return err
}

// WriteText writes each rule's violations followed by its total.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	for i, res := range r.Results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Running %s\n", res.Rule.Title())
		for _, v := range res.Violations {
			sb.WriteString(v.Message)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "\n\nTotal: %d\n", len(res.Violations))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML writes r as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
