package imports

import (
	stderrors "errors"
	"strings"

	"github.com/matzehuels/modcheck/pkg/errors"
)

// Mapping rewrites import literals that start with From so they start with To.
type Mapping struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// String renders the mapping in its "alias:path" flag form.
func (m Mapping) String() string { return m.From + ":" + m.To }

// ParseMapping parses an "alias:path" string. The string is split on the
// first colon; both halves must be non-empty.
func ParseMapping(s string) (Mapping, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return Mapping{}, errors.New(errors.ErrCodeInvalidMapping, "expected ALIAS:PATH, got %q", s)
	}
	if err := errors.ValidateAlias(from); err != nil {
		return Mapping{}, err
	}
	if err := errors.ValidateMappingTarget(to); err != nil {
		return Mapping{}, err
	}
	return Mapping{From: from, To: to}, nil
}

// Mappings is an ordered list of alias rewrites. The first matching
// mapping wins.
type Mappings []Mapping

// ParseMappings parses every string and reports all malformed ones at once.
func ParseMappings(params []string) (Mappings, error) {
	var (
		out  Mappings
		errs []error
	)
	for _, p := range params {
		m, err := ParseMapping(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, m)
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, stderrors.Join(errs...), "%d invalid module mapping(s)", len(errs))
	}
	return out, nil
}

// Rewrite applies the first mapping whose alias prefixes literal.
// It reports whether a rewrite happened.
func (ms Mappings) Rewrite(literal string) (string, bool) {
	for _, m := range ms {
		if strings.HasPrefix(literal, m.From) {
			return m.To + strings.TrimPrefix(literal, m.From), true
		}
	}
	return literal, false
}

// Strings renders the mappings in flag form.
func (ms Mappings) Strings() []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}
