// Package render draws layout blocks into a paginated PDF using gofpdf.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-generator/internal/layout"
)

const (
	fontFamily  = "Helvetica"
	lineSpacing = 1.2
	cellPadX    = 6.0
	cellPadY    = 3.0
)

// Config holds page geometry in points
type Config struct {
	PageSize     string
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
	// DocumentDate is written as the creation date so that
	// identical input always yields identical bytes.
	DocumentDate time.Time
}

// DefaultConfig returns Letter paper with 1in side and top margins and a
// quarter inch bottom margin
func DefaultConfig() Config {
	return Config{
		PageSize:     "Letter",
		MarginTop:    72,
		MarginBottom: 18,
		MarginLeft:   72,
		MarginRight:  72,
		DocumentDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// PDFRenderer renders block sequences to PDF bytes
type PDFRenderer struct {
	cfg    Config
	logger *zap.Logger
}

// NewPDFRenderer creates a PDFRenderer
func NewPDFRenderer(cfg Config, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{
		cfg:    cfg,
		logger: logger,
	}
}

// Render lays out blocks top to bottom, adding pages as needed, and returns
// the finished document.
func (r *PDFRenderer) Render(blocks []layout.Block) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", r.cfg.PageSize, "")
	pdf.SetMargins(r.cfg.MarginLeft, r.cfg.MarginTop, r.cfg.MarginRight)
	pdf.SetAutoPageBreak(true, r.cfg.MarginBottom)
	pdf.SetCreationDate(r.cfg.DocumentDate)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	d := &document{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		html:       pdf.HTMLBasicNew(),
		left:       r.cfg.MarginLeft,
		right:      r.cfg.MarginRight,
		top:        r.cfg.MarginTop,
		frameWidth: pageW - r.cfg.MarginLeft - r.cfg.MarginRight,
		pageBreakY: pageH - r.cfg.MarginBottom,
	}

	for i, block := range blocks {
		switch b := block.(type) {
		case layout.Heading:
			d.heading(b)
		case layout.Spacer:
			pdf.Ln(b.Height)
		case layout.Paragraph:
			d.paragraph(b)
		case layout.Columns:
			d.columns(b)
		case layout.Table:
			d.table(b)
		default:
			return nil, fmt.Errorf("block %d: unsupported block type %T", i, block)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	r.logger.Debug("Rendered invoice document",
		zap.Int("blocks", len(blocks)),
		zap.Int("pages", pdf.PageCount()),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

type document struct {
	pdf  *gofpdf.Fpdf
	tr   func(string) string
	html gofpdf.HTMLBasicType

	left, right, top float64
	frameWidth       float64
	pageBreakY       float64
}

func (d *document) heading(h layout.Heading) {
	d.pdf.SetFont(fontFamily, "B", h.Size)
	d.pdf.MultiCell(0, h.Size*lineSpacing, d.tr(h.Text), "", alignString(h.Align), false)
	if h.SpaceAfter > 0 {
		d.pdf.Ln(h.SpaceAfter)
	}
}

func (d *document) paragraph(p layout.Paragraph) {
	d.ensureSpace(d.measure(p, d.frameWidth))
	d.pdf.SetX(d.left)
	d.writeSpans(p, d.left, d.frameWidth)
	if p.SpaceAfter > 0 {
		d.pdf.Ln(p.SpaceAfter)
	}
}

// columns lays the cells out side by side, one visual line of every cell per
// row, so a cell that runs past the page bottom continues on the next page
// next to the continuation of its neighbors. The block is kept on one page
// when it fits on one.
func (d *document) columns(c layout.Columns) {
	cells := make([][][]layout.Span, len(c.Cells))
	rows := 0
	lineHeight := 0.0
	spaceAfter := 0.0
	for i, cell := range c.Cells {
		size := fontSize(cell.Size)
		for _, line := range splitSpanLines(cell.Spans) {
			cells[i] = append(cells[i], d.wrapLine(line, size, c.Widths[i]-2*cellPadX)...)
		}
		rows = max(rows, len(cells[i]))
		lineHeight = max(lineHeight, size*lineSpacing)
		spaceAfter = max(spaceAfter, cell.SpaceAfter)
	}

	height := float64(rows)*lineHeight + 2*cellPadY + spaceAfter
	if height <= d.pageBreakY-d.top {
		d.ensureSpace(height)
	}

	x0 := d.blockX(c.Width(), c.HAlign)
	y := d.pdf.GetY() + cellPadY
	for n := 0; n < rows; n++ {
		if y+lineHeight > d.pageBreakY {
			d.pdf.AddPage()
			y = d.pdf.GetY()
		}
		x := x0
		for i, cell := range c.Cells {
			if n < len(cells[i]) {
				d.writeLine(cells[i][n], fontSize(cell.Size), lineHeight, x+cellPadX, y, c.Widths[i]-2*cellPadX, cell.Align)
			}
			x += c.Widths[i]
		}
		y += lineHeight
	}

	d.pdf.SetXY(d.left, y+cellPadY+spaceAfter)
}

// wrapLine breaks one layout line into visual lines no wider than width,
// splitting at spaces. Lines holding markup are returned unwrapped.
func (d *document) wrapLine(line []layout.Span, size, width float64) [][]layout.Span {
	if _, ok := d.lineWidth(line, size); !ok {
		return [][]layout.Span{line}
	}

	var out [][]layout.Span
	var cur []layout.Span
	curWidth := 0.0
	for _, span := range line {
		d.setSpanFont(span.Kind, size)
		for _, word := range strings.SplitAfter(span.Text, " ") {
			if word == "" {
				continue
			}
			w := d.pdf.GetStringWidth(d.tr(word))
			if curWidth > 0 && curWidth+w > width {
				out = append(out, trimTrailingSpace(cur))
				cur, curWidth = nil, 0
			}
			if last := len(cur) - 1; last >= 0 && cur[last].Kind == span.Kind {
				cur[last].Text += word
			} else {
				cur = append(cur, layout.Span{Kind: span.Kind, Text: word})
			}
			curWidth += w
		}
	}
	return append(out, trimTrailingSpace(cur))
}

// writeLine draws one visual line at (x, y) inside a column of the given
// width without triggering automatic page breaks.
func (d *document) writeLine(line []layout.Span, size, lineHeight, x, y, width float64, align layout.Align) {
	if lineWidth, ok := d.lineWidth(line, size); ok {
		switch align {
		case layout.AlignRight:
			x += width - lineWidth
		case layout.AlignCenter:
			x += (width - lineWidth) / 2
		}
		d.pdf.SetXY(x, y)
		for _, span := range line {
			d.setSpanFont(span.Kind, size)
			text := d.tr(span.Text)
			d.pdf.CellFormat(d.pdf.GetStringWidth(text), lineHeight, text, "", 0, "L", false, 0, "")
		}
		return
	}

	// Markup is measured by the writer itself; keep it inside the column.
	d.pdf.SetXY(x, y)
	d.writeSpans(layout.Paragraph{Spans: line, Size: size}, x, width)
}

func (d *document) setSpanFont(kind layout.SpanKind, size float64) {
	if kind == layout.SpanBold {
		d.pdf.SetFont(fontFamily, "B", size)
		return
	}
	d.pdf.SetFont(fontFamily, "", size)
}

func trimTrailingSpace(line []layout.Span) []layout.Span {
	if n := len(line); n > 0 {
		line[n-1].Text = strings.TrimRight(line[n-1].Text, " ")
	}
	return line
}

func fontSize(size float64) float64 {
	if size == 0 {
		return 10
	}
	return size
}

func (d *document) table(t layout.Table) {
	x0 := d.blockX(t.Width(), t.HAlign)
	y := d.pdf.GetY()

	if len(t.Header) > 0 {
		y = d.tableRow(t, t.Header, t.HeaderStyle, nil, x0, y)
	}
	for i, row := range t.Rows {
		style := t.RowStyle
		if t.LastRowStyle != nil && i == len(t.Rows)-1 {
			style = *t.LastRowStyle
		}
		var tint *layout.Color
		if style.Fill == nil && len(t.BodyTints) > 0 {
			tint = &t.BodyTints[i%len(t.BodyTints)]
		}
		y = d.tableRow(t, row, style, tint, x0, y)
	}

	d.pdf.SetXY(d.left, y)
}

// tableRow draws one row starting at y and returns the y below it. Rows are
// never split; a row that does not fit starts a new page.
func (d *document) tableRow(t layout.Table, cells []string, style layout.RowStyle, tint *layout.Color, x0, y float64) float64 {
	size := style.FontSize
	if size == 0 {
		size = 10
	}
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	padBottom := cellPadY
	if style.PadBottom > 0 {
		padBottom = style.PadBottom
	}
	lineHeight := size * lineSpacing

	d.pdf.SetFont(fontFamily, fontStyle, size)
	lines := make([][]string, len(t.Widths))
	rowHeight := 0.0
	for col, width := range t.Widths {
		text := ""
		if col < len(cells) {
			text = d.tr(cells[col])
		}
		lines[col] = d.splitLines(text, width-2*cellPadX)
		rowHeight = max(rowHeight, float64(len(lines[col]))*lineHeight)
	}
	rowHeight += cellPadY + padBottom

	if y+rowHeight > d.pageBreakY && y > d.top {
		d.pdf.AddPage()
		d.pdf.SetFont(fontFamily, fontStyle, size)
		y = d.pdf.GetY()
	}

	fill := style.Fill
	if fill == nil {
		fill = tint
	}
	textColor := layout.Black
	if style.TextColor != nil {
		textColor = *style.TextColor
	}

	x := x0
	for col, width := range t.Widths {
		if fill != nil {
			d.pdf.SetFillColor(fill.R, fill.G, fill.B)
			d.pdf.Rect(x, y, width, rowHeight, "F")
		}
		if t.Grid > 0 {
			d.pdf.SetDrawColor(0, 0, 0)
			d.pdf.SetLineWidth(t.Grid)
			d.pdf.Rect(x, y, width, rowHeight, "D")
		}

		align := layout.AlignLeft
		if col < len(t.ColumnAlign) {
			align = t.ColumnAlign[col]
		}
		d.pdf.SetTextColor(textColor.R, textColor.G, textColor.B)
		for n, line := range lines[col] {
			d.pdf.SetXY(x+cellPadX, y+cellPadY+float64(n)*lineHeight)
			d.pdf.CellFormat(width-2*cellPadX, lineHeight, line, "", 0, alignString(align), false, 0, "")
		}
		x += width
	}
	d.pdf.SetTextColor(0, 0, 0)

	if style.RuleBelow > 0 {
		d.pdf.SetDrawColor(0, 0, 0)
		d.pdf.SetLineWidth(style.RuleBelow)
		d.pdf.Line(x0, y+rowHeight, x0+t.Width(), y+rowHeight)
	}

	return y + rowHeight
}

// writeSpans writes p's spans inside the column [x, x+width] starting at the
// current position, one output line per layout line plus any wrapping.
func (d *document) writeSpans(p layout.Paragraph, x, width float64) {
	size := p.Size
	if size == 0 {
		size = 10
	}
	lineHeight := size * lineSpacing
	pageW, _ := d.pdf.GetPageSize()

	d.pdf.SetLeftMargin(x)
	d.pdf.SetRightMargin(pageW - x - width)
	defer func() {
		d.pdf.SetLeftMargin(d.left)
		d.pdf.SetRightMargin(d.right)
	}()

	for _, line := range splitSpanLines(p.Spans) {
		lineWidth, measurable := d.lineWidth(line, size)
		d.pdf.SetX(x)
		if measurable && lineWidth <= width {
			switch p.Align {
			case layout.AlignRight:
				d.pdf.SetX(x + width - lineWidth)
			case layout.AlignCenter:
				d.pdf.SetX(x + (width-lineWidth)/2)
			}
		}

		for _, span := range line {
			switch span.Kind {
			case layout.SpanPlain:
				d.pdf.SetFont(fontFamily, "", size)
				d.pdf.Write(lineHeight, d.tr(span.Text))
			case layout.SpanBold:
				d.pdf.SetFont(fontFamily, "B", size)
				d.pdf.Write(lineHeight, d.tr(span.Text))
			case layout.SpanMarkup:
				d.pdf.SetFont(fontFamily, "", size)
				d.html.Write(lineHeight, d.tr(span.Text))
			}
		}
		d.pdf.Ln(lineHeight)
	}
	d.pdf.SetFont(fontFamily, "", size)
}

// lineWidth measures a line of plain and bold spans. Lines holding markup
// cannot be measured and report false.
func (d *document) lineWidth(line []layout.Span, size float64) (float64, bool) {
	width := 0.0
	for _, span := range line {
		switch span.Kind {
		case layout.SpanPlain:
			d.pdf.SetFont(fontFamily, "", size)
		case layout.SpanBold:
			d.pdf.SetFont(fontFamily, "B", size)
		default:
			return 0, false
		}
		width += d.pdf.GetStringWidth(d.tr(span.Text))
	}
	return width, true
}

// measure estimates the height p occupies in a column of the given width,
// measuring every line in bold so the estimate errs on the tall side.
func (d *document) measure(p layout.Paragraph, width float64) float64 {
	size := p.Size
	if size == 0 {
		size = 10
	}
	d.pdf.SetFont(fontFamily, "B", size)

	lines := 0
	for _, line := range splitSpanLines(p.Spans) {
		var sb strings.Builder
		for _, span := range line {
			sb.WriteString(span.Text)
		}
		lines += len(d.splitLines(d.tr(sb.String()), width))
	}
	return float64(lines)*size*lineSpacing + p.SpaceAfter
}

func (d *document) splitLines(text string, width float64) []string {
	raw := d.pdf.SplitLines([]byte(text), width)
	if len(raw) == 0 {
		return []string{""}
	}
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = string(line)
	}
	return lines
}

// ensureSpace starts a new page when height does not fit below the cursor
func (d *document) ensureSpace(height float64) {
	y := d.pdf.GetY()
	if y+height > d.pageBreakY && y > d.top {
		d.pdf.AddPage()
	}
}

func (d *document) blockX(width float64, align layout.Align) float64 {
	switch align {
	case layout.AlignCenter:
		return d.left + (d.frameWidth-width)/2
	case layout.AlignRight:
		return d.left + d.frameWidth - width
	default:
		return d.left
	}
}

func splitSpanLines(spans []layout.Span) [][]layout.Span {
	lines := [][]layout.Span{{}}
	for _, span := range spans {
		if span.Kind == layout.SpanBreak {
			lines = append(lines, []layout.Span{})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], span)
	}
	return lines
}

func alignString(a layout.Align) string {
	switch a {
	case layout.AlignCenter:
		return "C"
	case layout.AlignRight:
		return "R"
	default:
		return "L"
	}
}
