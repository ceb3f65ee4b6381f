package imports

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/matzehuels/modcheck/pkg/errors"
)

// importPattern matches a named import on a single line and captures its
// literal. Relative-ness is checked after alias rewriting.
var importPattern = regexp.MustCompile(`import\s*\{[^}]*\}\s*from\s*'([^']+)';`)

// Statement is one recognized import.
type Statement struct {
	Literal string // relative literal after alias rewriting
	Line    int    // 1-based line number
	Aliased bool   // true when a mapping rewrote the literal
}

// ParseLine extracts the first import on line, wherever it appears.
// Lines whose literal is not relative after alias rewriting are ignored.
func ParseLine(line string, mappings Mappings) (Statement, bool) {
	m := importPattern.FindStringSubmatch(line)
	if m == nil {
		return Statement{}, false
	}
	literal, aliased := mappings.Rewrite(m[1])
	if !strings.HasPrefix(literal, ".") {
		return Statement{}, false
	}
	return Statement{Literal: literal, Aliased: aliased}, true
}

// Extract reads r line by line and returns every recognized import in order.
func Extract(r io.Reader, mappings Mappings) ([]Statement, error) {
	var out []Statement
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if st, ok := ParseLine(sc.Text(), mappings); ok {
			st.Line = n
			out = append(out, st)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, err, "scan imports")
	}
	return out, nil
}
