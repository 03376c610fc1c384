// Package layout turns a computed invoice into an ordered list of abstract
// document blocks. Blocks carry no rendering logic; a render sink decides how
// they are drawn and paginated.
package layout

import "strings"

// Inch is one inch in points, the unit of every size in this package
const Inch = 72.0

// Align is the horizontal alignment of text or of a block within the frame
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Color is an RGB color with 0-255 components
type Color struct {
	R, G, B int
}

var (
	Black      = Color{0, 0, 0}
	Grey       = Color{128, 128, 128}
	LightGrey  = Color{211, 211, 211}
	WhiteSmoke = Color{245, 245, 245}
	Beige      = Color{245, 245, 220}
	Ivory      = Color{255, 255, 240}
)

// SpanKind tells the renderer how to treat a span's text
type SpanKind int

const (
	// SpanPlain is literal text. Renderers never interpret it as markup.
	SpanPlain SpanKind = iota
	// SpanBold is literal text in a bold face.
	SpanBold
	// SpanMarkup is trusted inline markup passed to the renderer's markup
	// interpreter as is.
	SpanMarkup
	// SpanBreak ends the current line.
	SpanBreak
)

// Span is a run of inline content
type Span struct {
	Kind SpanKind
	Text string
}

// Plain returns a literal text span
func Plain(text string) Span { return Span{Kind: SpanPlain, Text: text} }

// Bold returns a literal bold span
func Bold(text string) Span { return Span{Kind: SpanBold, Text: text} }

// TrustedMarkup returns a span whose text is interpreted as inline markup.
// Only use it for text that does not come from a caller, or when the caller
// is explicitly trusted.
func TrustedMarkup(markup string) Span { return Span{Kind: SpanMarkup, Text: markup} }

// Break returns a line break
func Break() Span { return Span{Kind: SpanBreak} }

// Lines splits text on newlines into spans of kind separated by breaks, so
// multi-line input keeps its line structure.
func Lines(kind SpanKind, text string) []Span {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")

	spans := make([]Span, 0, len(parts)*2-1)
	for i, part := range parts {
		if i > 0 {
			spans = append(spans, Break())
		}
		spans = append(spans, Span{Kind: kind, Text: part})
	}
	return spans
}

// Block is one unit of document content
type Block interface {
	block()
}

// Heading is a single line of large text
type Heading struct {
	Text       string
	Size       float64
	Align      Align
	SpaceAfter float64
}

// Spacer is vertical whitespace
type Spacer struct {
	Height float64
}

// Paragraph is a flow of spans wrapped to its available width
type Paragraph struct {
	Spans      []Span
	Size       float64
	Align      Align
	SpaceAfter float64
}

// Columns places paragraphs side by side, top aligned
type Columns struct {
	Widths []float64
	Cells  []Paragraph
	HAlign Align
}

// RowStyle styles one table row
type RowStyle struct {
	Bold      bool
	FontSize  float64
	Fill      *Color
	TextColor *Color
	// PadBottom overrides the default cell bottom padding when non-zero.
	PadBottom float64
	// RuleBelow draws a line of this width under the row when non-zero.
	RuleBelow float64
}

// Table is a grid of literal text cells. Cell text is never treated as
// markup.
type Table struct {
	Widths      []float64
	HAlign      Align
	ColumnAlign []Align
	Header      []string
	HeaderStyle RowStyle
	Rows        [][]string
	RowStyle    RowStyle
	// BodyTints are cycled as fill colors over the body rows.
	BodyTints []Color
	// LastRowStyle replaces RowStyle for the final body row when set.
	LastRowStyle *RowStyle
	// Grid is the width of the lines drawn around every cell; zero draws none.
	Grid float64
}

func (Heading) block()   {}
func (Spacer) block()    {}
func (Paragraph) block() {}
func (Columns) block()   {}
func (Table) block()     {}

// Width returns the sum of the table's column widths
func (t Table) Width() float64 {
	return sum(t.Widths)
}

// Width returns the sum of the column widths
func (c Columns) Width() float64 {
	return sum(c.Widths)
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
