package shoppinglist

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/pageza/foodgram/backend/config"
)

const (
	coreFont    = "Helvetica"
	unicodeFont = "Body"
)

// Renderer draws a shopping list onto fixed-geometry pages
type Renderer struct {
	layout config.PDFLayout
}

func NewRenderer(layout config.PDFLayout) *Renderer {
	return &Renderer{layout: layout}
}

type placedText struct {
	x, y float64
	text string
}

type page struct {
	title *placedText
	rows  []placedText
}

// plan lays out the document in bottom-left coordinates. The cursor starts at
// RowY on the first page and at TitleY on the following ones; it moves down by
// LineStep after each row and a page ends once it reaches BottomMargin.
func (r *Renderer) plan(title string, items []Item) []page {
	l := r.layout
	pages := []page{{title: &placedText{x: l.TitleX, y: l.TitleY, text: title}}}

	y := l.RowY
	for i, item := range items {
		current := &pages[len(pages)-1]
		current.rows = append(current.rows, placedText{x: l.RowX, y: y, text: item.String()})
		y -= l.LineStep

		if y <= l.BottomMargin && i < len(items)-1 {
			pages = append(pages, page{})
			y = l.TitleY
		}
	}

	return pages
}

// Render writes the PDF for owner's items to w
func (r *Renderer) Render(w io.Writer, owner string, items []Item) error {
	l := r.layout
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Shopping list", true)

	family := coreFont
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if l.FontFile != "" {
		pdf.AddUTF8Font(unicodeFont, "", l.FontFile)
		family = unicodeFont
		translate = func(s string) string { return s }
	}

	for _, p := range r.plan(fmt.Sprintf("Shopping list for %s", owner), items) {
		pdf.AddPage()
		if p.title != nil {
			pdf.SetFont(family, "", l.TitleFontSize)
			pdf.Text(p.title.x, l.PageHeight-p.title.y, translate(p.title.text))
		}
		pdf.SetFont(family, "", l.RowFontSize)
		for _, row := range p.rows {
			pdf.Text(row.x, l.PageHeight-row.y, translate(row.text))
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render shopping list: %w", err)
	}
	return pdf.Output(w)
}
