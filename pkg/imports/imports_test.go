package imports

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modcheck/pkg/errors"
	"github.com/matzehuels/modcheck/pkg/source"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func newRoot(t *testing.T) source.Root {
	t.Helper()
	r, err := source.NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot() error: %v", err)
	}
	return r
}

func TestParseLine(t *testing.T) {
	lib := Mappings{{From: "@lib", To: "./packages/lib"}}
	tests := []struct {
		name    string
		line    string
		want    string
		aliased bool
		ok      bool
	}{
		{"named", "import { A } from './a';", "./a", false, true},
		{"multiple names", "import { A, B as C } from '../x/y';", "../x/y", false, true},
		{"no spaces", "import{A}from'./a';", "./a", false, true},
		{"leading whitespace", "   import { A } from './a';", "./a", false, true},
		{"double quotes", `import { A } from "./a";`, "", false, false},
		{"missing semicolon", "import { A } from './a'", "", false, false},
		{"package import", "import { A } from 'lodash';", "", false, false},
		{"default import", "import A from './a';", "", false, false},
		{"re-export", "export { A } from './a';", "", false, false},
		{"after other statement", "export const a = 1; import { B } from './b';", "./b", false, true},
		{"commented out", "// import { A } from './a';", "./a", false, true},
		{"alias", "import { A } from '@lib/a';", "./packages/lib/a", true, true},
		{"alias in names is untouched", "import { lib } from './lib';", "./lib", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := ParseLine(tt.line, lib)
			if ok != tt.ok {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if st.Literal != tt.want {
				t.Errorf("ParseLine(%q).Literal = %q, want %q", tt.line, st.Literal, tt.want)
			}
			if st.Aliased != tt.aliased {
				t.Errorf("ParseLine(%q).Aliased = %v, want %v", tt.line, st.Aliased, tt.aliased)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	src := strings.Join([]string{
		"import { A } from './a';",
		"const x = 1;",
		"import { B } from 'external';",
		"import { C } from '../c/index';",
	}, "\n")

	got, err := Extract(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	want := []Statement{
		{Literal: "./a", Line: 1},
		{Literal: "../c/index", Line: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extract()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    Mapping
		wantErr bool
	}{
		{"@lib:./packages/lib", Mapping{From: "@lib", To: "./packages/lib"}, false},
		{"~:./src:extra", Mapping{From: "~", To: "./src:extra"}, false},
		{"nocolon", Mapping{}, true},
		{":./x", Mapping{}, true},
		{"@lib:", Mapping{}, true},
		{"@lib:/abs", Mapping{}, true},
		{"@lib:packages/lib", Mapping{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMapping(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMapping(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidMapping) {
				t.Errorf("ParseMapping(%q) code = %s, want %s", tt.in, errors.GetCode(err), errors.ErrCodeInvalidMapping)
			}
			if got != tt.want {
				t.Errorf("ParseMapping(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMappings_CollectsAll(t *testing.T) {
	_, err := ParseMappings([]string{"bad1", "@ok:./ok", "bad2"})
	if !errors.Is(err, errors.ErrCodeInvalidMapping) {
		t.Fatalf("ParseMappings() error = %v, want %s", err, errors.ErrCodeInvalidMapping)
	}
	for _, s := range []string{"bad1", "bad2"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("ParseMappings() error %q does not mention %q", err, s)
		}
	}

	ms, err := ParseMappings([]string{"@a:./a", "@b:./b"})
	if err != nil {
		t.Fatalf("ParseMappings() error: %v", err)
	}
	if got := strings.Join(ms.Strings(), ","); got != "@a:./a,@b:./b" {
		t.Errorf("Strings() = %q, want %q", got, "@a:./a,@b:./b")
	}
}

func TestResolve_Order(t *testing.T) {
	r := newRoot(t)
	dir := r.Path()
	write(t, dir, "m/plain.ts", "")
	write(t, dir, "m/decl.d.ts", "")
	write(t, dir, "m/folder/index.ts", "")
	write(t, dir, "m/both.ts", "")
	write(t, dir, "m/both.d.ts", "")
	write(t, dir, "m/explicit.ts", "")
	write(t, dir, "m/raw.js", "")

	tests := []struct {
		literal string
		want    string
	}{
		{"./explicit.ts", "m/explicit.ts"},
		{"./plain", "m/plain.ts"},
		{"./decl", "m/decl.d.ts"},
		{"./folder", "m/folder/index.ts"},
		{"./both", "m/both.ts"},
		{"./raw.js", "m/raw.js"},
		{"../m/plain", "m/plain.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := Resolve(tt.literal, filepath.Join(dir, "m"), r.Layout())
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.literal, err)
			}
			if want := filepath.Join(dir, filepath.FromSlash(tt.want)); got != want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.literal, got, want)
			}
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	r := newRoot(t)
	_, err := Resolve("./missing", r.Path(), r.Layout())
	if !errors.Is(err, errors.ErrCodeUnresolvedImport) {
		t.Fatalf("Resolve() error = %v, want %s", err, errors.ErrCodeUnresolvedImport)
	}
	ue, ok := err.(*UnresolvedError)
	if !ok {
		t.Fatalf("Resolve() error type = %T, want *UnresolvedError", err)
	}
	if ue.Literal != "./missing" || ue.Candidate != filepath.Join(r.Path(), "missing") {
		t.Errorf("UnresolvedError = %+v", ue)
	}
}

func TestResolveFile(t *testing.T) {
	r := newRoot(t)
	dir := r.Path()
	write(t, dir, "b/index.ts", "")
	write(t, dir, "packages/lib/util.ts", "")
	p := write(t, dir, "a/deep/main.ts", strings.Join([]string{
		"import { B } from '../../b';",
		"import { U } from '@lib/util';",
		"import { M } from './missing';",
		"import { X } from 'react';",
	}, "\n"))

	f, err := source.NewFile(r, p)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)
	got, err := ResolveFile(f, Mappings{{From: "@lib", To: "../../packages/lib"}}, logger)
	if err != nil {
		t.Fatalf("ResolveFile() error: %v", err)
	}

	want := []Target{
		{Path: filepath.Join(dir, "b", "index.ts"), Literal: "../../b", Line: 1},
		{Path: filepath.Join(dir, "packages", "lib", "util.ts"), Literal: "../../packages/lib/util", Line: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("ResolveFile() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolveFile()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !strings.Contains(buf.String(), "./missing") {
		t.Errorf("expected warning for ./missing, got %q", buf.String())
	}
}

func TestResolveFile_AliasFromNestedFile(t *testing.T) {
	r := newRoot(t)
	dir := r.Path()
	write(t, dir, "app/lib/util.ts", "")
	write(t, dir, "lib/util.ts", "")
	p := write(t, dir, "app/main.ts", "import { U } from '@lib/util';\n")

	f, err := source.NewFile(r, p)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	got, err := ResolveFile(f, Mappings{{From: "@lib", To: "./lib"}}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("ResolveFile() error: %v", err)
	}
	want := Target{Path: filepath.Join(dir, "app", "lib", "util.ts"), Literal: "./lib/util", Line: 1}
	if len(got) != 1 || got[0] != want {
		t.Errorf("ResolveFile() = %+v, want [%+v]", got, want)
	}
}

func TestResolveFile_ReadError(t *testing.T) {
	r := newRoot(t)
	p := write(t, r.Path(), "a/x.ts", "")
	f, err := source.NewFile(r, p)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveFile(f, nil, log.New(io.Discard)); !errors.Is(err, errors.ErrCodeFileRead) {
		t.Errorf("ResolveFile() error = %v, want %s", err, errors.ErrCodeFileRead)
	}
}
