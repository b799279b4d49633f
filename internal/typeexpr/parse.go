package typeexpr

import (
	"fmt"
	"strings"

	"github.com/tfskema/tfskema/internal/scan"
)

// Diag collects recoverable problems found while parsing. Malformed holds
// fragments that degraded to an unknown primitive; BadLiterals holds default
// text that could not be decoded (the default is dropped).
type Diag struct {
	Malformed   []string
	BadLiterals []string
}

// scope is the stack of per-object optional-field sets. A frame is pushed on
// entering object(...) and popped into the resulting Object node, so sets
// never leak across nesting boundaries.
type scope struct {
	frames []map[string]struct{}
}

func (sc *scope) push() {
	sc.frames = append(sc.frames, map[string]struct{}{})
}

func (sc *scope) pop() map[string]struct{} {
	n := len(sc.frames)
	top := sc.frames[n-1]
	sc.frames = sc.frames[:n-1]
	return top
}

func (sc *scope) markOptional(name string) {
	if n := len(sc.frames); n > 0 && name != "" {
		sc.frames[n-1][name] = struct{}{}
	}
}

type parser struct {
	sc   scope
	diag Diag
}

// Parse compiles a type expression into an AST node. Unrecognized but
// balanced text degrades to Primitive{Name: "unknown"}; only unbalanced
// delimiters are fatal, reported as an error wrapping scan.ErrUnbalanced.
func Parse(expr string) (Node, Diag, error) {
	p := &parser{}
	n, err := p.parse(expr, "")
	if err != nil {
		return nil, p.diag, err
	}
	return n, p.diag, nil
}

func (p *parser) parse(expr, field string) (Node, error) {
	t := strings.TrimSpace(UnwrapInterpolation(expr))

	switch t {
	case "string", "number", "bool", "any":
		return &Primitive{Name: t}, nil
	}

	switch {
	case strings.HasPrefix(t, "list("):
		return p.parseCollection(t, func(e Node) Node { return &List{Elem: e} })
	case strings.HasPrefix(t, "set("):
		return p.parseCollection(t, func(e Node) Node { return &Set{Elem: e} })
	case strings.HasPrefix(t, "map("):
		return p.parseCollection(t, func(e Node) Node { return &Map{Value: e} })
	case strings.HasPrefix(t, "object("):
		return p.parseObject(t)
	case strings.HasPrefix(t, "optional("):
		return p.parseOptional(t, field)
	}

	// Permissive fallback: the grammar corpus is not guaranteed complete.
	if !scan.Balanced(t) {
		return nil, fmt.Errorf("%w in %q", scan.ErrUnbalanced, t)
	}
	if t != "" {
		p.diag.Malformed = append(p.diag.Malformed, t)
	}
	return &Primitive{Name: "unknown", Raw: t}, nil
}

// interior extracts the argument text between a constructor's parens.
func interior(t string) (string, error) {
	open := strings.IndexByte(t, '(')
	end, err := scan.MatchingClose(t, open)
	if err != nil {
		return "", fmt.Errorf("%w in %q", scan.ErrUnbalanced, t)
	}
	return t[open+1 : end], nil
}

func (p *parser) parseCollection(t string, wrap func(Node) Node) (Node, error) {
	inner, err := interior(t)
	if err != nil {
		return nil, err
	}
	elem, err := p.parse(inner, "")
	if err != nil {
		return nil, err
	}
	return wrap(elem), nil
}

func (p *parser) parseObject(t string) (Node, error) {
	inner, err := interior(t)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(inner)
	if !strings.HasPrefix(body, "{") {
		if !scan.Balanced(body) {
			return nil, fmt.Errorf("%w in %q", scan.ErrUnbalanced, t)
		}
		p.diag.Malformed = append(p.diag.Malformed, t)
		return &Primitive{Name: "unknown", Raw: t}, nil
	}
	end, err := scan.MatchingClose(body, 0)
	if err != nil {
		return nil, fmt.Errorf("%w in %q", scan.ErrUnbalanced, t)
	}
	body = body[1:end]

	p.sc.push()
	obj := &Object{}
	for _, seg := range scan.SplitTop(body, ",\n") {
		name, typ, ok := splitAssign(seg)
		if !ok {
			p.diag.Malformed = append(p.diag.Malformed, strings.TrimSpace(seg))
			continue
		}
		fname := strings.TrimSpace(name)
		ft, err := p.parse(typ, fname)
		if err != nil {
			p.sc.pop()
			return nil, err
		}
		obj.Fields = append(obj.Fields, Field{Name: fname, Type: ft})
	}
	obj.Optional = p.sc.pop()
	return obj, nil
}

func (p *parser) parseOptional(t, field string) (Node, error) {
	inner, err := interior(t)
	if err != nil {
		return nil, err
	}
	args := scan.SplitTop(inner, ",")
	if len(args) == 0 {
		p.diag.Malformed = append(p.diag.Malformed, t)
		return &Primitive{Name: "unknown", Raw: t}, nil
	}

	// Record optionality in the enclosing object's scope before descending;
	// the wrapped type may open scopes of its own.
	p.sc.markOptional(field)

	elem, err := p.parse(args[0], "")
	if err != nil {
		return nil, err
	}
	opt := &Optional{Elem: elem}
	if len(args) > 1 {
		text := strings.Join(args[1:], ",")
		v, err := ParseLiteral(text)
		if err != nil {
			p.diag.BadLiterals = append(p.diag.BadLiterals, strings.TrimSpace(text))
		} else {
			opt.HasDefault = true
			opt.Default = v
		}
	}
	return opt, nil
}

// UnwrapInterpolation strips a single ${...} layer covering the whole
// expression, a pattern left behind by older module generators. The schema
// generator applies the same unwrapping to validation conditions.
func UnwrapInterpolation(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "${") || !strings.HasSuffix(t, "}") {
		return s
	}
	end, err := scan.MatchingClose(t, 1)
	if err != nil || end != len(t)-1 {
		return s
	}
	return t[2:end]
}
