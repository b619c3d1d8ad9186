// Package document renders consolidated shopping lists into paginated
// PDF checklists.
package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Header is the once-per-document block: the requester and the selected
// recipe names in display-index order.
type Header struct {
	Username    string
	RecipeNames []string
}

// Line is one checklist row.
type Line struct {
	Amount     string
	Ingredient string
	Recipes    []int
}

// Layout constants, in points on an A4 portrait page.
const (
	marginLeft   = 50.0
	marginTop    = 50.0
	marginRight  = 50.0
	bottomMargin = 40.0

	checkboxSize = 12.0
	columnGap    = 10.0
	rowPadding   = 6.0

	titleFontSize    = 16.0
	bodyFontSize     = 11.0
	footnoteFontSize = 8.0
	footerFontSize   = 9.0
	lineHeight       = 14.0

	// Fraction of the text baseline within a line box.
	baselineRatio = 0.8

	headerGap = 20.0
)

// Document is a finished render.
type Document struct {
	Bytes []byte
	Pages int
}

// Engine paginates consolidated lines into a checklist PDF. Layout state
// (cursor, column widths) lives only for the duration of one Render call.
type Engine struct{}

// NewEngine creates a layout engine.
func NewEngine() *Engine {
	return &Engine{}
}

// cursor tracks the vertical position on the current page.
type cursor struct {
	y     float64
	top   float64
	limit float64 // page height minus bottom margin
}

func newCursor(pageHeight, top, bottom float64) *cursor {
	return &cursor{y: top, top: top, limit: pageHeight - bottom}
}

// fits reports whether a block of height h fits above the bottom margin.
func (c *cursor) fits(h float64) bool {
	return c.y+h <= c.limit
}

func (c *cursor) reset() {
	c.y = c.top
}

func (c *cursor) advance(h float64) {
	c.y += h
}

// Render produces the checklist document. The header block is drawn on
// page one only; rows never break across pages; the footer line follows
// the last row on whichever page it lands.
func (e *Engine) Render(header Header, lines []Line, generatedAt time.Time) (*Document, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - marginLeft - marginRight
	amountW := 0.25 * contentW
	amountX := marginLeft + checkboxSize + columnGap
	ingredientX := amountX + amountW + columnGap
	ingredientW := contentW - checkboxSize - amountW - 2*columnGap

	cur := newCursor(pageH, marginTop, bottomMargin)

	drawHeader(pdf, cur, header)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	for _, line := range lines {
		amountLines := splitText(pdf, line.Amount, amountW)
		ingredientLines := splitText(pdf, line.Ingredient, ingredientW)

		textLines := len(amountLines)
		if len(ingredientLines) > textLines {
			textLines = len(ingredientLines)
		}
		if textLines == 0 {
			textLines = 1
		}
		textH := float64(textLines) * lineHeight
		rowH := textH
		if rowH < checkboxSize {
			rowH = checkboxSize
		}
		rowH += rowPadding

		if !cur.fits(rowH) {
			pdf.AddPage()
			cur.reset()
		}

		drawRow(pdf, cur, rowDraw{
			amount:      amountLines,
			ingredient:  ingredientLines,
			footnote:    formatProvenance(line.Recipes),
			amountX:     amountX,
			amountW:     amountW,
			ingredientX: ingredientX,
			contentW:    contentW,
			rowH:        rowH,
		})
		cur.advance(rowH)
	}

	drawFooter(pdf, cur, generatedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list document: %w", err)
	}

	return &Document{Bytes: buf.Bytes(), Pages: pdf.PageNo()}, nil
}

func drawHeader(pdf *fpdf.Fpdf, cur *cursor, header Header) {
	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.Text(marginLeft, cur.y+titleFontSize, fmt.Sprintf("Shopping list for %s", header.Username))
	cur.advance(titleFontSize + 10)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	for i, name := range header.RecipeNames {
		if !cur.fits(lineHeight) {
			pdf.AddPage()
			cur.reset()
		}
		pdf.Text(marginLeft, cur.y+baselineRatio*lineHeight, fmt.Sprintf("%d. %s", i+1, name))
		cur.advance(lineHeight)
	}

	cur.advance(headerGap)
}

type rowDraw struct {
	amount      []string
	ingredient  []string
	footnote    string
	amountX     float64
	amountW     float64
	ingredientX float64
	contentW    float64
	rowH        float64
}

func drawRow(pdf *fpdf.Fpdf, cur *cursor, row rowDraw) {
	// Checkbox, vertically centered in the row.
	boxY := cur.y + (row.rowH-rowPadding-checkboxSize)/2
	pdf.Rect(marginLeft, boxY, checkboxSize, checkboxSize, "D")

	baseline := func(i int) float64 {
		return cur.y + float64(i)*lineHeight + baselineRatio*lineHeight
	}

	// Amount, right-aligned within its column.
	for i, txt := range row.amount {
		w := pdf.GetStringWidth(txt)
		pdf.Text(row.amountX+row.amountW-w, baseline(i), txt)
	}

	// Ingredient, left-aligned, footnote appended to the last text line.
	lastLine := ""
	lastIdx := 0
	for i, txt := range row.ingredient {
		pdf.Text(row.ingredientX, baseline(i), txt)
		lastLine = txt
		lastIdx = i
	}

	if row.footnote != "" {
		footnoteX := row.ingredientX + pdf.GetStringWidth(lastLine) + 4
		pdf.SetFont("Helvetica", "", footnoteFontSize)
		pdf.SetTextColor(128, 128, 128)
		pdf.Text(footnoteX, baseline(lastIdx), row.footnote)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", bodyFontSize)
	}

	// Separator rule beneath the row.
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(marginLeft, cur.y+row.rowH-2, marginLeft+row.contentW, cur.y+row.rowH-2)
	pdf.SetDrawColor(0, 0, 0)
}

func drawFooter(pdf *fpdf.Fpdf, cur *cursor, generatedAt time.Time) {
	if !cur.fits(lineHeight) {
		pdf.AddPage()
		cur.reset()
	}

	pdf.SetFont("Helvetica", "I", footerFontSize)
	pdf.SetTextColor(128, 128, 128)
	pdf.Text(marginLeft, cur.y+baselineRatio*lineHeight, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	pdf.SetTextColor(0, 0, 0)
}

// splitText wraps txt to fit width, using the current font.
func splitText(pdf *fpdf.Fpdf, txt string, width float64) []string {
	if strings.TrimSpace(txt) == "" {
		return nil
	}
	return pdf.SplitText(txt, width)
}

// formatProvenance renders "Recipes 1, 2, 3" for the footnote column.
func formatProvenance(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "Recipes " + strings.Join(parts, ", ")
}
