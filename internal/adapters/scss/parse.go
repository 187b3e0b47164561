package scss

import (
	"strings"

	"go.trai.ch/zerr"
)

type nodeKind int

const (
	nDecl   nodeKind = iota // property: value
	nVar                    // $name: value [!default]
	nImport                 // @import / @use with a resolvable target
	nAtStmt                 // other at-statement, passed through
	nRule                   // selector { ... }
	nMedia                  // @media / @supports { ... }
	nRaw                    // other at-rule block (@font-face, @keyframes, ...)
)

// astNode is one parsed statement or block. Block kinds carry children,
// statement kinds carry name/value.
type astNode struct {
	kind    nodeKind
	name    string // property, variable name, selector, at header, import target
	value   string
	defOnly bool // !default on a variable
	once    bool // @use rather than @import
	file    string
	line    int
	kids    []*astNode
}

type stmtKind int

const (
	stmtSemi stmtKind = iota
	stmtOpen
	stmtClose
)

type stmt struct {
	text string
	line int
	kind stmtKind
}

// stripComments removes // and /* */ comments while preserving newlines,
// so statement line numbers keep pointing at the source. Comment markers
// inside quoted strings are left alone.
func stripComments(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src))

	i, line := 0, 1
	var quote byte
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			b.WriteByte(c)
			i++
		case quote != 0:
			if c == '\\' && i+1 < len(src) {
				b.WriteByte(c)
				b.WriteByte(src[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
			i++
		case c == '"' || c == '\'':
			quote = c
			b.WriteByte(c)
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			start := line
			i += 2
			for {
				if i+1 >= len(src) {
					return "", zerr.With(zerr.New("unterminated comment"), "line", start)
				}
				if src[i] == '\n' {
					line++
					b.WriteByte('\n')
				}
				if src[i] == '*' && src[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
		default:
			b.WriteByte(c)
			i++
		}
	}
	if quote != 0 {
		return "", zerr.With(zerr.New("unterminated string"), "line", line)
	}
	return b.String(), nil
}

// splitStatements cuts comment-free source into statements and block
// delimiters. Semicolons and braces inside strings, parentheses, or #{}
// interpolation do not terminate a statement.
func splitStatements(src string) ([]stmt, error) {
	var out []stmt
	var buf strings.Builder

	line, start := 1, 1
	parens, braces := 0, 0
	var quote byte

	flush := func(kind stmtKind) {
		text := strings.TrimSpace(buf.String())
		if text != "" || kind != stmtSemi {
			out = append(out, stmt{text: text, line: start, kind: kind})
		}
		buf.Reset()
		start = line
	}

	i := 0
	for i < len(src) {
		c := src[i]
		if c == '\n' {
			line++
		}
		if buf.Len() == 0 && quote == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '\r') {
			start = line
			i++
			continue
		}

		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(src) {
				buf.WriteByte(c)
				buf.WriteByte(src[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			buf.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			buf.WriteByte(c)
		case c == '#' && i+1 < len(src) && src[i+1] == '{':
			braces++
			buf.WriteString("#{")
			i += 2
			continue
		case braces > 0:
			if c == '}' {
				braces--
			}
			buf.WriteByte(c)
		case c == '(':
			parens++
			buf.WriteByte(c)
		case c == ')':
			if parens > 0 {
				parens--
			}
			buf.WriteByte(c)
		case parens > 0:
			buf.WriteByte(c)
		case c == ';':
			flush(stmtSemi)
		case c == '{':
			flush(stmtOpen)
		case c == '}':
			// Allow a final declaration without its semicolon.
			if strings.TrimSpace(buf.String()) != "" {
				flush(stmtSemi)
			}
			flush(stmtClose)
		default:
			buf.WriteByte(c)
		}
		i++
	}

	if trailing := strings.TrimSpace(buf.String()); trailing != "" {
		return nil, zerr.With(zerr.New("statement without terminator"), "line", start)
	}
	return out, nil
}

// parseFile parses comment-free statements into a node tree for one file.
func parseFile(file, src string) ([]*astNode, error) {
	clean, err := stripComments(src)
	if err != nil {
		return nil, compileErr(file, lineOf(err), zerr.Wrap(err, "parse failed").Error())
	}
	stmts, err := splitStatements(clean)
	if err != nil {
		return nil, compileErr(file, lineOf(err), zerr.Wrap(err, "parse failed").Error())
	}

	root := &astNode{kind: nRule}
	stack := []*astNode{root}

	for _, s := range stmts {
		top := stack[len(stack)-1]
		switch s.kind {
		case stmtClose:
			if len(stack) == 1 {
				return nil, compileErr(file, s.line, "unbalanced closing brace")
			}
			stack = stack[:len(stack)-1]

		case stmtOpen:
			if s.text == "" {
				return nil, compileErr(file, s.line, "block without a selector")
			}
			block := &astNode{name: s.text, file: file, line: s.line}
			switch {
			case strings.HasPrefix(s.text, "@media") || strings.HasPrefix(s.text, "@supports"):
				block.kind = nMedia
			case strings.HasPrefix(s.text, "@"):
				block.kind = nRaw
			default:
				block.kind = nRule
			}
			top.kids = append(top.kids, block)
			stack = append(stack, block)

		case stmtSemi:
			node, err := parseStatement(file, s)
			if err != nil {
				return nil, err
			}
			top.kids = append(top.kids, node)
		}
	}

	if len(stack) != 1 {
		open := stack[len(stack)-1]
		return nil, compileErr(file, open.line, "unclosed block")
	}
	return root.kids, nil
}

func parseStatement(file string, s stmt) (*astNode, error) {
	switch {
	case strings.HasPrefix(s.text, "$"):
		name, rest, ok := strings.Cut(s.text, ":")
		if !ok {
			return nil, compileErr(file, s.line, "variable declaration without value")
		}
		value := strings.TrimSpace(rest)
		defOnly := false
		if v, found := strings.CutSuffix(value, "!default"); found {
			defOnly = true
			value = strings.TrimSpace(v)
		}
		return &astNode{
			kind:    nVar,
			name:    strings.TrimSpace(name),
			value:   value,
			defOnly: defOnly,
			file:    file,
			line:    s.line,
		}, nil

	case strings.HasPrefix(s.text, "@import ") || strings.HasPrefix(s.text, "@use "):
		_, rest, _ := strings.Cut(s.text, " ")
		return &astNode{
			kind: nImport,
			name: strings.TrimSpace(rest),
			once: strings.HasPrefix(s.text, "@use "),
			file: file,
			line: s.line,
		}, nil

	case strings.HasPrefix(s.text, "@"):
		return &astNode{kind: nAtStmt, value: s.text, file: file, line: s.line}, nil

	default:
		name, rest, ok := strings.Cut(s.text, ":")
		if !ok {
			return nil, compileErr(file, s.line, "invalid declaration")
		}
		return &astNode{
			kind:  nDecl,
			name:  strings.TrimSpace(name),
			value: strings.TrimSpace(rest),
			file:  file,
			line:  s.line,
		}, nil
	}
}

// lineOf pulls the line metadata attached by the lexer, defaulting to 1.
func lineOf(err error) int {
	var zErr *zerr.Error
	if ok := asZerr(err, &zErr); ok {
		if n, ok := zErr.Metadata()["line"].(int); ok {
			return n
		}
	}
	return 1
}
