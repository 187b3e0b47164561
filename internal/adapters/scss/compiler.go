// Package scss implements the embedded SCSS preprocessing stage.
//
// The compiler covers a documented subset of SCSS: comments, variables
// with !default, project-relative @import/@use, nested rules with &
// parent references, and @media/@supports hoisting. Everything it does
// not understand is a compile error rather than silently wrong output,
// so the emitted CSS is deterministic for identical inputs.
package scss

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Preprocessor = (*Compiler)(nil)

// Name is the preprocessor name the compiler registers under.
const Name = "scss"

// Compiler implements ports.Preprocessor for SCSS sources.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// OutputPath maps a source path to its emitted asset path by swapping the
// extension to .css.
func (c *Compiler) OutputPath(source string) string {
	ext := path.Ext(source)
	return strings.TrimSuffix(source, ext) + ".css"
}

// Compile reads the entry below root, resolves its imports, and emits
// plain CSS. Deps lists every file consulted besides the entry itself,
// as sorted scan-relative paths.
func (c *Compiler) Compile(root string, entry domain.Entry) (*ports.CompileResult, error) {
	if strings.EqualFold(path.Ext(entry.Rel), ".sass") {
		return nil, compileErr(entry.Rel, 1, "indented syntax not supported")
	}

	u := &unit{
		root: root,
		env:  map[string]string{},
		used: map[string]bool{},
		deps: domain.NewDependencySet(),
	}
	var out cssWriter
	if err := u.include(entry.Rel, nil, &out); err != nil {
		return nil, err
	}

	deps := u.deps
	result := &ports.CompileResult{
		Output: out.bytes(),
		Deps:   deps.Sorted(),
	}
	return result, nil
}

// unit is the state of one compilation: the variable environment, the
// include-once set for @use, and the accumulated dependency set.
type unit struct {
	root string
	env  map[string]string
	used map[string]bool
	deps *domain.DependencySet
}

// include parses and evaluates one file. stack holds the chain of files
// currently being included, for cycle detection; the entry file is at
// stack depth zero and is not recorded as a dependency of itself.
func (u *unit) include(rel string, stack []string, out *cssWriter) error {
	for _, s := range stack {
		if s == rel {
			return compileErr(rel, 1, "import cycle through "+strings.Join(stack, " -> "))
		}
	}
	if len(stack) > 0 {
		u.deps.Add(rel)
	}

	data, err := os.ReadFile(filepath.Join(u.root, filepath.FromSlash(rel)))
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCompile, "unreadable source"), "file", rel)
	}

	nodes, err := parseFile(rel, string(data))
	if err != nil {
		return err
	}
	return u.eval(nodes, append(stack, rel), out)
}

// eval walks top-level nodes in document order. Variables mutate the
// environment, imports recurse, rules flatten into the output.
func (u *unit) eval(nodes []*astNode, stack []string, out *cssWriter) error {
	for _, n := range nodes {
		switch n.kind {
		case nVar:
			if n.defOnly {
				if _, ok := u.env[n.name]; ok {
					continue
				}
			}
			value, err := u.substitute(n.value, n.file, n.line)
			if err != nil {
				return err
			}
			u.env[n.name] = value

		case nImport:
			if err := u.evalImport(n, stack, out); err != nil {
				return err
			}

		case nRule:
			if err := u.flattenRule(nil, n, out); err != nil {
				return err
			}

		case nMedia:
			if err := u.flattenMedia(nil, n, out); err != nil {
				return err
			}

		case nRaw:
			if err := u.emitRaw(n, out); err != nil {
				return err
			}

		case nAtStmt:
			value, err := u.substitute(n.value, n.file, n.line)
			if err != nil {
				return err
			}
			out.statement(value)

		case nDecl:
			return compileErr(n.file, n.line, "declaration outside a rule")
		}
	}
	return nil
}

func (u *unit) evalImport(n *astNode, stack []string, out *cssWriter) error {
	targets, err := importTargets(n)
	if err != nil {
		return err
	}
	for _, target := range targets {
		// Plain CSS imports (urls, .css files) pass through verbatim.
		if isPlainCSSImport(target) {
			out.statement("@import " + quote(target) + ";")
			continue
		}

		rel, ok := u.resolve(n.file, target)
		if !ok {
			return compileErr(n.file, n.line, "unresolved import "+quote(target))
		}
		if n.once {
			if u.used[rel] {
				continue
			}
			u.used[rel] = true
		}
		if err := u.include(rel, stack, out); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps an import target to a scan-relative file path. Targets
// resolve against the importing file's directory; "name" tries name.scss
// then the partial _name.scss.
func (u *unit) resolve(from, target string) (string, bool) {
	dir := path.Dir(from)
	base := path.Join(dir, target)
	if !strings.HasSuffix(base, ".scss") {
		base += ".scss"
	}

	candidates := []string{
		base,
		path.Join(path.Dir(base), "_"+path.Base(base)),
	}
	for _, cand := range candidates {
		if cand == "" || strings.HasPrefix(cand, "../") {
			continue
		}
		if _, err := os.Stat(filepath.Join(u.root, filepath.FromSlash(cand))); err == nil {
			return cand, true
		}
	}
	return "", false
}

// flattenRule emits the declarations of a nested rule under its combined
// selector, then recurses into nested rules and hoists nested media
// blocks to the top level.
func (u *unit) flattenRule(parents []string, n *astNode, out *cssWriter) error {
	selector, err := u.substitute(n.name, n.file, n.line)
	if err != nil {
		return err
	}
	combined := combineSelectors(parents, selector)

	decls, err := u.collectDecls(n)
	if err != nil {
		return err
	}
	out.rule(strings.Join(combined, ", "), decls)

	for _, kid := range n.kids {
		switch kid.kind {
		case nRule:
			if err := u.flattenRule(combined, kid, out); err != nil {
				return err
			}
		case nMedia:
			if err := u.flattenMedia(combined, kid, out); err != nil {
				return err
			}
		case nRaw:
			return compileErr(kid.file, kid.line, "at-rule block inside a rule")
		}
	}
	return nil
}

// flattenMedia hoists a @media or @supports block to the top level,
// wrapping the flattened rules of its body. A media block directly
// inside a rule inherits that rule's selector for its bare declarations.
func (u *unit) flattenMedia(parents []string, n *astNode, out *cssWriter) error {
	header, err := u.substitute(n.name, n.file, n.line)
	if err != nil {
		return err
	}

	var inner cssWriter
	decls, err := u.collectDecls(n)
	if err != nil {
		return err
	}
	if len(decls) > 0 {
		if len(parents) == 0 {
			return compileErr(n.file, n.line, "declaration outside a rule")
		}
		inner.rule(strings.Join(parents, ", "), decls)
	}

	for _, kid := range n.kids {
		switch kid.kind {
		case nRule:
			if err := u.flattenRule(parents, kid, &inner); err != nil {
				return err
			}
		case nMedia:
			return compileErr(kid.file, kid.line, "nested media query")
		case nRaw:
			return compileErr(kid.file, kid.line, "at-rule block inside a media query")
		}
	}

	out.block(header, &inner)
	return nil
}

// emitRaw writes an at-rule block such as @font-face or @keyframes with
// variable substitution but no structural rewriting.
func (u *unit) emitRaw(n *astNode, out *cssWriter) error {
	header, err := u.substitute(n.name, n.file, n.line)
	if err != nil {
		return err
	}

	var inner cssWriter
	decls, err := u.collectDecls(n)
	if err != nil {
		return err
	}
	if len(decls) > 0 {
		inner.decls(decls)
	}
	for _, kid := range n.kids {
		switch kid.kind {
		case nRule, nRaw:
			if err := u.emitRawChild(kid, &inner); err != nil {
				return err
			}
		case nMedia:
			return compileErr(kid.file, kid.line, "media query inside an at-rule block")
		}
	}
	out.block(header, &inner)
	return nil
}

func (u *unit) emitRawChild(n *astNode, out *cssWriter) error {
	name, err := u.substitute(n.name, n.file, n.line)
	if err != nil {
		return err
	}
	decls, err := u.collectDecls(n)
	if err != nil {
		return err
	}
	for _, kid := range n.kids {
		switch kid.kind {
		case nRule, nMedia, nRaw:
			return compileErr(kid.file, kid.line, "block nested too deeply inside an at-rule")
		}
	}
	out.rule(name, decls)
	return nil
}

// collectDecls evaluates the direct declarations of a block, applying
// variable assignments scoped in document order.
func (u *unit) collectDecls(n *astNode) ([]declaration, error) {
	var decls []declaration
	for _, kid := range n.kids {
		switch kid.kind {
		case nDecl:
			property, err := u.substitute(kid.name, kid.file, kid.line)
			if err != nil {
				return nil, err
			}
			value, err := u.substitute(kid.value, kid.file, kid.line)
			if err != nil {
				return nil, err
			}
			decls = append(decls, declaration{property: property, value: value})
		case nVar:
			if kid.defOnly {
				if _, ok := u.env[kid.name]; ok {
					continue
				}
			}
			value, err := u.substitute(kid.value, kid.file, kid.line)
			if err != nil {
				return nil, err
			}
			u.env[kid.name] = value
		case nImport:
			return nil, compileErr(kid.file, kid.line, "import inside a block")
		case nAtStmt:
			value, err := u.substitute(kid.value, kid.file, kid.line)
			if err != nil {
				return nil, err
			}
			decls = append(decls, declaration{raw: value})
		}
	}
	return decls, nil
}

// substitute replaces $name references and #{...} interpolations with
// the values bound in the environment. Unknown variables are an error
// carrying the use site.
func (u *unit) substitute(s, file string, line int) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '#' && i+1 < len(s) && s[i+1] == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", compileErr(file, line, "unterminated interpolation")
			}
			inner, err := u.substitute(s[i+2:i+end], file, line)
			if err != nil {
				return "", err
			}
			b.WriteString(strings.TrimSpace(inner))
			i += end + 1
		case c == '$':
			j := i + 1
			for j < len(s) && isNameByte(s[j]) {
				j++
			}
			name := s[i:j]
			if len(name) == 1 {
				b.WriteByte(c)
				i++
				continue
			}
			value, ok := u.env[name]
			if !ok {
				return "", compileErr(file, line, "undefined variable "+name)
			}
			b.WriteString(value)
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// combineSelectors crosses a parent selector list with a nested selector
// list. An & in the child splices the parent in place; otherwise the
// child is a descendant of the parent.
func combineSelectors(parents []string, selector string) []string {
	kids := splitSelectors(selector)
	if len(parents) == 0 {
		return kids
	}

	combined := make([]string, 0, len(parents)*len(kids))
	for _, p := range parents {
		for _, k := range kids {
			if strings.Contains(k, "&") {
				combined = append(combined, strings.ReplaceAll(k, "&", p))
			} else {
				combined = append(combined, p+" "+k)
			}
		}
	}
	return combined
}

// splitSelectors cuts a selector list on commas outside parentheses and
// brackets, e.g. an :is(a, b) group stays intact.
func splitSelectors(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		out = append(out, last)
	}
	return out
}

// importTargets extracts the quoted targets of an @import or @use
// directive. @use accepts a single target with an optional namespace
// clause, which the compiler ignores since all variables are global.
func importTargets(n *astNode) ([]string, error) {
	spec := n.name
	if n.once {
		if idx := strings.Index(spec, " as "); idx >= 0 {
			spec = spec[:idx]
		}
	}

	var targets []string
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		unquoted, ok := unquote(part)
		if !ok {
			return nil, compileErr(n.file, n.line, "import target must be a quoted string")
		}
		targets = append(targets, unquoted)
	}
	if len(targets) == 0 || (n.once && len(targets) > 1) {
		return nil, compileErr(n.file, n.line, "invalid import target list")
	}
	return targets, nil
}

func isPlainCSSImport(target string) bool {
	return strings.HasSuffix(target, ".css") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "url(")
}

func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func quote(s string) string {
	return `"` + s + `"`
}

func compileErr(file string, line int, msg string) error {
	err := zerr.With(zerr.Wrap(domain.ErrCompile, msg), "file", file)
	return zerr.With(err, "line", line)
}

func asZerr(err error, target **zerr.Error) bool {
	return errors.As(err, target)
}
