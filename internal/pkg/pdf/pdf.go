// Package pdf renders leave requests and reports with fpdf.
//
// Request bodies are a small HTML subset: paragraphs, line breaks, headings,
// bold, italic, underline, list items, simple tables and spans styled with
// font-style:italic, text-decoration:line-through or a dotted border (an
// empty signature line).
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
)

const (
	unicodeFamily = "dejavu"
	coreFamily    = "Helvetica"
	bodySize      = 11.0
	lineHeight    = 5.5
)

var fontFiles = map[string]string{
	"":   "DejaVuSans.ttf",
	"B":  "DejaVuSans-Bold.ttf",
	"I":  "DejaVuSans-Oblique.ttf",
	"BI": "DejaVuSans-BoldOblique.ttf",
}

// Logo is an image placed in the top right corner of the first page.
type Logo struct {
	Data []byte
	// Type is "PNG" or "JPG".
	Type string
}

type Renderer struct {
	fontDir string
}

// NewRenderer returns a renderer using the DejaVu fonts in fontDir. When the
// directory is empty or lacks the fonts the core Helvetica font is used and
// Polish letters are folded to ASCII.
func NewRenderer(fontDir string) *Renderer {
	return &Renderer{fontDir: fontDir}
}

type doc struct {
	pdf    *fpdf.Fpdf
	family string
	fold   func(string) string
}

func (r *Renderer) newDoc(orientation string) *doc {
	p := fpdf.New(orientation, "mm", "A4", "")
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)
	tr := p.UnicodeTranslatorFromDescriptor("")
	d := &doc{pdf: p, family: coreFamily, fold: func(s string) string { return tr(foldPolish(s)) }}

	if r.fontDir != "" && r.hasFonts() {
		for style, file := range fontFiles {
			p.AddUTF8Font(unicodeFamily, style, filepath.Join(r.fontDir, file))
		}
		d.family = unicodeFamily
		d.fold = func(s string) string { return s }
	}
	p.AddPage()
	p.SetFont(d.family, "", bodySize)
	return d
}

func (r *Renderer) hasFonts() bool {
	for _, file := range fontFiles {
		if _, err := os.Stat(filepath.Join(r.fontDir, file)); err != nil {
			slog.Warn("pdf font missing, falling back to core font", "file", file, "error", err)
			return false
		}
	}
	return true
}

func (d *doc) placeLogo(logo *Logo) {
	if logo == nil || len(logo.Data) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: logo.Type, ReadDpi: true}
	d.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
	if d.pdf.Err() {
		slog.Warn("company logo skipped", "error", d.pdf.Error())
		d.pdf.ClearError()
		return
	}
	pageW, _ := d.pdf.GetPageSize()
	_, _, right, _ := d.pdf.GetMargins()
	d.pdf.ImageOptions("logo", pageW-right-40, 10, 40, 0, false, opts, 0, "")
}

func (d *doc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Document renders an HTML body on A4 portrait.
func (r *Renderer) Document(body string, logo *Logo) ([]byte, error) {
	d := r.newDoc("P")
	d.placeLogo(logo)
	if logo != nil && len(logo.Data) > 0 {
		d.pdf.SetY(35)
	}
	if err := d.writeHTML(strings.NewReader(body)); err != nil {
		return nil, err
	}
	return d.output()
}

// Table renders a titled grid on A4 landscape. Column widths follow widths
// (in mm); a missing width defaults to 20.
func (r *Renderer) Table(title string, headers []string, widths []float64, rows [][]string) ([]byte, error) {
	d := r.newDoc("L")
	p := d.pdf

	p.SetFont(d.family, "B", 14)
	p.CellFormat(0, 10, d.fold(title), "", 1, "L", false, 0, "")
	p.Ln(2)

	width := func(i int) float64 {
		if i < len(widths) {
			return widths[i]
		}
		return 20
	}

	p.SetFont(d.family, "B", 9)
	p.SetFillColor(226, 232, 240)
	for i, h := range headers {
		p.CellFormat(width(i), 7, d.fold(h), "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont(d.family, "", 8)
	for _, row := range rows {
		for i, cell := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			p.CellFormat(width(i), 6, d.fold(cell), "1", 0, align, false, 0, "")
		}
		p.Ln(-1)
	}
	return d.output()
}

type style struct {
	bold, italic, underline, strike bool
	size                            float64
}

func (s style) fontStyle() string {
	var b strings.Builder
	if s.bold {
		b.WriteByte('B')
	}
	if s.italic {
		b.WriteByte('I')
	}
	if s.underline {
		b.WriteByte('U')
	}
	if s.strike {
		b.WriteByte('S')
	}
	return b.String()
}

func (d *doc) apply(s style) {
	d.pdf.SetFont(d.family, s.fontStyle(), s.size)
}

func (d *doc) writeHTML(r io.Reader) error {
	z := html.NewTokenizer(r)
	stack := []style{{size: bodySize}}
	top := func() style { return stack[len(stack)-1] }
	push := func(s style) {
		stack = append(stack, s)
		d.apply(s)
	}
	pop := func() {
		if len(stack) > 1 {
			stack = stack[:len(stack)-1]
		}
		d.apply(top())
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("parse request body: %w", z.Err())

		case html.TextToken:
			text := collapseSpace(string(z.Text()))
			if strings.TrimSpace(text) == "" && d.atLineStart() {
				continue
			}
			d.pdf.Write(lineHeight*top().size/bodySize, d.fold(text))

		case html.SelfClosingTagToken, html.StartTagToken:
			name, hasAttr := z.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			tag := string(name)
			switch tag {
			case "br":
				d.pdf.Ln(lineHeight)
				continue
			case "hr":
				d.newLine()
				x, y := d.pdf.GetXY()
				w, _ := d.pdf.GetPageSize()
				_, _, right, _ := d.pdf.GetMargins()
				d.pdf.Line(x, y, w-right, y)
				d.pdf.Ln(2)
				continue
			case "p", "div", "tr", "li":
				d.newLine()
				if tag == "li" {
					d.pdf.Write(lineHeight, "- ")
				}
			case "td", "th":
				d.pdf.Write(lineHeight, "   ")
			}
			if isVoid(tag) {
				continue
			}
			s := top()
			switch tag {
			case "strong", "b", "th":
				s.bold = true
			case "em", "i":
				s.italic = true
			case "u":
				s.underline = true
			case "s", "del", "strike":
				s.strike = true
			case "h1":
				d.newLine()
				s.bold, s.size = true, 16
			case "h2":
				d.newLine()
				s.bold, s.size = true, 14
			case "h3":
				d.newLine()
				s.bold, s.size = true, 12
			}
			css := strings.ReplaceAll(strings.ToLower(attrs["style"]), " ", "")
			if strings.Contains(css, "line-through") {
				s.strike = true
			}
			if strings.Contains(css, "font-style:italic") {
				s.italic = true
			}
			if strings.Contains(css, "font-weight:bold") {
				s.bold = true
			}
			if strings.Contains(css, "dotted") {
				d.pdf.Write(lineHeight, strings.Repeat(".", 40))
			}
			push(s)

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isVoid(tag) {
				continue
			}
			pop()
			switch tag {
			case "p", "div", "h1", "h2", "h3", "table":
				d.newLine()
				d.pdf.Ln(lineHeight / 2)
			}
		}
	}
}

func (d *doc) atLineStart() bool {
	left, _, _, _ := d.pdf.GetMargins()
	return d.pdf.GetX() <= left+0.01
}

func (d *doc) newLine() {
	if !d.atLineStart() {
		d.pdf.Ln(lineHeight)
	}
}

func isVoid(tag string) bool {
	switch tag {
	case "br", "hr", "img", "meta", "link", "input":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

var polishFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
	"→", "->", "–", "-", "—", "-", "„", "\"", "”", "\"",
)

// foldPolish maps text onto the core fonts' Latin-1 range.
func foldPolish(s string) string {
	return polishFold.Replace(s)
}
