// Package binding resolves the bind expressions of template elements against
// a flat data record. An expression is either a bare field reference or a
// call such as upper(name) or concat(name, " ", sku); the result is always
// the text the layout engine will fit, never markup.
package binding

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	bindLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	exprParser = participle.MustBuild[Expr](
		participle.Lexer(bindLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// Record is the flat datum one label is bound against. Values are whatever
// the upstream store decoded, typically strings and float64s.
type Record map[string]any

// Expr is a parsed bind expression.
type Expr struct {
	Call  *Call          `parser:"  @@"`
	Field *string        `parser:"| @Ident"`
	Str   *StringLiteral `parser:"| @String"`
	Num   *float64       `parser:"| @Number"`
}

// Call is a function application over nested expressions.
type Call struct {
	Name string  `parser:"@Ident '('"`
	Args []*Expr `parser:"( @@ ( ',' @@ )* )? ')'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// MissingFieldError reports a reference to a field the record does not
// carry. It is a hard failure: rendering a label with silently blank data
// is worse than refusing the job.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("bind: record has no field %q", e.Field)
}

// Parse compiles the expression without evaluating it, for upfront template
// validation.
func Parse(expr string) (*Expr, error) {
	parsed, err := exprParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("bind: parse %q: %w", expr, err)
	}
	return parsed, nil
}

// Resolve parses and evaluates expr against rec, returning the display text.
func Resolve(expr string, rec Record) (string, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return "", err
	}
	val, err := parsed.eval(rec)
	if err != nil {
		return "", err
	}
	return displayString(val), nil
}

func (e *Expr) eval(rec Record) (any, error) {
	switch {
	case e.Call != nil:
		return e.Call.eval(rec)
	case e.Field != nil:
		val, ok := rec[*e.Field]
		if !ok {
			return nil, &MissingFieldError{Field: *e.Field}
		}
		return val, nil
	case e.Str != nil:
		return string(*e.Str), nil
	case e.Num != nil:
		return *e.Num, nil
	default:
		return nil, fmt.Errorf("bind: empty expression")
	}
}

func (c *Call) eval(rec Record) (any, error) {
	args := make([]any, len(c.Args))
	for i, arg := range c.Args {
		val, err := arg.eval(rec)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return apply(c.Name, args)
}

// displayString renders a resolved value the way it should appear on the
// label. Floats drop their trailing zeros so bound quantities read as
// entered, not as Go's default float formatting.
func displayString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
