// Package docx turns the body of a Word document into the HTML subset the
// template editor and the PDF renderer understand.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// maxDocumentXML bounds the uncompressed word/document.xml.
const maxDocumentXML = 20 << 20

var ErrInvalid = errors.New("Nie udało się odczytać pliku DOCX.")

// ToHTML converts paragraphs, bold/italic/underlined runs, line breaks,
// list paragraphs and tables. Images, text boxes and tracked deletions are
// dropped.
func ToHTML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		defer rc.Close()

		out, err := convert(io.LimitReader(rc, maxDocumentXML))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return out, nil
	}
	return "", fmt.Errorf("%w: word/document.xml missing", ErrInvalid)
}

// skipped elements never contribute text to the body.
var skipped = map[string]bool{
	"del":              true,
	"drawing":          true,
	"pict":             true,
	"object":           true,
	"sectPr":           true,
	"sdtPr":            true,
	"AlternateContent": true,
}

type frame struct {
	node *html.Node
	list *html.Node
}

type run struct {
	bold, italic, underline bool
	pieces                  []*html.Node
}

type converter struct {
	frames    []*frame
	para      *html.Node
	paraList  bool
	run       *run
	inRunPr   bool
	inText    bool
	inBody    bool
	paraAlign string
	heading   int
}

func convert(r io.Reader) (string, error) {
	root := &html.Node{Type: html.DocumentNode}
	c := &converter{frames: []*frame{{node: root}}}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "body" && t.Name.Space == wordNS {
				c.inBody = true
				continue
			}
			if !c.inBody {
				continue
			}
			if skipped[t.Name.Local] {
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			}
			if t.Name.Space == wordNS {
				c.start(t)
			}
		case xml.EndElement:
			if t.Name.Space == wordNS && c.inBody {
				c.end(t)
			}
		case xml.CharData:
			if c.inText && c.run != nil {
				c.run.pieces = append(c.run.pieces, &html.Node{Type: html.TextNode, Data: string(t)})
			}
		}
	}

	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
		buf.WriteByte('\n')
	}
	return strings.TrimSpace(buf.String()), nil
}

func (c *converter) top() *frame { return c.frames[len(c.frames)-1] }

func (c *converter) push(n *html.Node) {
	c.top().list = nil
	c.top().node.AppendChild(n)
	c.frames = append(c.frames, &frame{node: n})
}

func (c *converter) pop() {
	if len(c.frames) > 1 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func (c *converter) start(t xml.StartElement) {
	switch t.Name.Local {
	case "tbl":
		c.push(element(atom.Table,
			html.Attribute{Key: "border", Val: "1"},
			html.Attribute{Key: "style", Val: "border-collapse:collapse;width:100%"}))
	case "tr":
		c.push(element(atom.Tr))
	case "tc":
		c.push(element(atom.Td))
	case "p":
		c.para = element(atom.P)
		c.paraList = false
		c.paraAlign = ""
		c.heading = 0
	case "jc":
		if c.para != nil && c.run == nil {
			c.paraAlign = alignment(attr(t, "val"))
		}
	case "numPr":
		if c.para != nil && c.run == nil {
			c.paraList = true
		}
	case "pStyle":
		if c.para != nil && c.run == nil {
			c.heading = headingLevel(attr(t, "val"))
		}
	case "r":
		if c.para != nil {
			c.run = &run{}
		}
	case "rPr":
		c.inRunPr = c.run != nil
	case "b":
		if c.inRunPr {
			c.run.bold = on(t)
		}
	case "i":
		if c.inRunPr {
			c.run.italic = on(t)
		}
	case "u":
		if c.inRunPr {
			c.run.underline = on(t) && attr(t, "val") != "none"
		}
	case "t":
		c.inText = true
	case "br", "cr":
		if c.run != nil {
			c.run.pieces = append(c.run.pieces, element(atom.Br))
		}
	case "tab":
		if c.run != nil {
			c.run.pieces = append(c.run.pieces, &html.Node{Type: html.TextNode, Data: "\u00a0\u00a0\u00a0\u00a0"})
		}
	}
}

func (c *converter) end(t xml.EndElement) {
	switch t.Name.Local {
	case "tbl", "tr", "tc":
		c.pop()
	case "t":
		c.inText = false
	case "rPr":
		c.inRunPr = false
	case "r":
		if c.run != nil && c.para != nil {
			c.flushRun()
		}
		c.run = nil
	case "p":
		if c.para != nil {
			c.flushParagraph()
		}
		c.para = nil
	}
}

func (c *converter) flushRun() {
	if len(c.run.pieces) == 0 {
		return
	}
	parent := c.para
	wrap := func(set bool, a atom.Atom) {
		if set {
			n := element(a)
			parent.AppendChild(n)
			parent = n
		}
	}
	wrap(c.run.bold, atom.Strong)
	wrap(c.run.italic, atom.Em)
	wrap(c.run.underline, atom.U)
	for _, n := range c.run.pieces {
		parent.AppendChild(n)
	}
}

func (c *converter) flushParagraph() {
	p := c.para
	if p.FirstChild == nil {
		p.AppendChild(&html.Node{Type: html.TextNode, Data: "\u00a0"})
	}
	if c.paraAlign != "" {
		p.Attr = append(p.Attr, html.Attribute{Key: "style", Val: "text-align:" + c.paraAlign})
	}

	f := c.top()
	if c.paraList {
		if f.list == nil {
			f.list = element(atom.Ul)
			f.node.AppendChild(f.list)
		}
		p.DataAtom, p.Data = atom.Li, atom.Li.String()
		f.list.AppendChild(p)
		return
	}
	f.list = nil
	if c.heading > 0 {
		h := headings[c.heading-1]
		p.DataAtom, p.Data = h, h.String()
	}
	f.node.AppendChild(p)
}

var headings = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// headingLevel maps the built-in "Title" and "HeadingN" styles to 1..6.
func headingLevel(style string) int {
	if style == "Title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "Heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func alignment(jc string) string {
	switch jc {
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "both", "distribute":
		return "justify"
	}
	return ""
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// on reads an OOXML toggle property; a missing w:val means true.
func on(t xml.StartElement) bool {
	switch attr(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
