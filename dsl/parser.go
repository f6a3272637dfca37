package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	editLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:px|%)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(editLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.CaseInsensitive("Ident"),
	)
)

// Script is the root AST node of a layout edit script.
//
//	# move the headline down a little, then snap everything after it
//	move headline to 0.08 0.14
//	snap on
//	resize cta to 50% 64px
//	nudge logo by -8 4
type Script struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"( Newline | ';' )* ( @@ ( Newline | ';' )* )*"`
}

// Statement is a single edit instruction.
type Statement struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Move   *Move          `parser:"  @@"`
	Resize *Resize        `parser:"| @@"`
	Nudge  *Nudge         `parser:"| @@"`
	Snap   *Snap          `parser:"| @@"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Move != nil:
		return "move"
	case s.Resize != nil:
		return "resize"
	case s.Nudge != nil:
		return "nudge"
	case s.Snap != nil:
		return "snap"
	default:
		return "unknown"
	}
}

// Move places a zone's top-left corner.
type Move struct {
	Zone string   `parser:"'move' @Ident 'to'"`
	X    Quantity `parser:"@Number"`
	Y    Quantity `parser:"@Number"`
}

// Resize sets a zone's width and height, keeping its top-left corner.
type Resize struct {
	Zone string   `parser:"'resize' @Ident 'to'"`
	W    Quantity `parser:"@Number"`
	H    Quantity `parser:"@Number"`
}

// Nudge shifts a zone; unit-less values are pixels.
type Nudge struct {
	Zone string   `parser:"'nudge' @Ident 'by'"`
	DX   Quantity `parser:"@Number"`
	DY   Quantity `parser:"@Number"`
}

// Snap toggles grid snapping for the statements that follow.
type Snap struct {
	State string `parser:"'snap' @( 'on' | 'off' )"`
}

// On reports whether snapping is being enabled.
func (s *Snap) On() bool { return strings.EqualFold(s.State, "on") }

// Unit is the unit suffix of a Quantity.
type Unit int

const (
	UnitNone    Unit = iota // canvas fraction, or pixels for nudge
	UnitPx                  // pixels
	UnitPercent             // percent of the canvas dimension
)

// Quantity preserves a numeric value with its unit suffix.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Capture implements participle.Capture.
func (q *Quantity) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("数值缺失")
	}
	raw := values[0]
	unit := UnitNone
	switch {
	case strings.HasSuffix(raw, "px"):
		unit, raw = UnitPx, strings.TrimSuffix(raw, "px")
	case strings.HasSuffix(raw, "%"):
		unit, raw = UnitPercent, strings.TrimSuffix(raw, "%")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("无法解析数值 %q: %w", values[0], err)
	}
	*q = Quantity{Value: v, Unit: unit}
	return nil
}

// Pixels resolves the quantity against a canvas dimension. Unit-less values
// are fractions unless bare is UnitPx.
func (q Quantity) Pixels(dim int, bare Unit) float64 {
	unit := q.Unit
	if unit == UnitNone {
		unit = bare
	}
	switch unit {
	case UnitPx:
		return q.Value
	case UnitPercent:
		return q.Value / 100 * float64(dim)
	default:
		return q.Value * float64(dim)
	}
}

// Parse parses an edit script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses an edit script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}
