package scss

import "strings"

// declaration is one emitted line inside a block: either a
// property/value pair or a raw at-statement carried through verbatim.
type declaration struct {
	property string
	value    string
	raw      string
}

// cssWriter accumulates formatted CSS. Output depends only on the calls
// made, so two runs over the same tree emit identical bytes.
type cssWriter struct {
	b      strings.Builder
	indent int
}

func (w *cssWriter) bytes() []byte {
	return []byte(w.b.String())
}

func (w *cssWriter) empty() bool {
	return w.b.Len() == 0
}

// statement writes a freestanding line such as a passthrough @import
// or an @charset directive.
func (w *cssWriter) statement(s string) {
	w.line(s)
}

// rule writes a selector block. Blocks without declarations are dropped:
// a nested rule's parent often only exists for grouping.
func (w *cssWriter) rule(selector string, decls []declaration) {
	if len(decls) == 0 {
		return
	}
	w.line(selector + " {")
	w.indent++
	w.decls(decls)
	w.indent--
	w.line("}")
}

func (w *cssWriter) decls(decls []declaration) {
	for _, d := range decls {
		if d.raw != "" {
			w.line(d.raw)
			continue
		}
		w.line(d.property + ": " + d.value + ";")
	}
}

// block writes a wrapping construct such as @media around already
// rendered inner content. Empty bodies are dropped.
func (w *cssWriter) block(header string, inner *cssWriter) {
	if inner.empty() {
		return
	}
	w.line(header + " {")
	w.indent++
	for line := range strings.Lines(strings.TrimSuffix(inner.b.String(), "\n")) {
		w.line(strings.TrimSuffix(line, "\n"))
	}
	w.indent--
	w.line("}")
}

func (w *cssWriter) line(s string) {
	for range w.indent {
		w.b.WriteString("  ")
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}
