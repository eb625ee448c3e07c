package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx zips files into an in-memory .docx.
func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`
}

func TestToHTML(t *testing.T) {
	body := `
<w:p><w:pPr><w:pStyle w:val="Title"/><w:jc w:val="center"/></w:pPr><w:r><w:t>Wniosek urlopowy</w:t></w:r></w:p>
<w:p>
  <w:r><w:t xml:space="preserve">Proszę o </w:t></w:r>
  <w:r><w:rPr><w:b/></w:rPr><w:t>urlop</w:t></w:r>
  <w:r><w:rPr><w:i/><w:u w:val="single"/></w:rPr><w:t>{{date_from}}</w:t></w:r>
  <w:r><w:br/><w:t>A &amp; B &lt;x&gt;</w:t></w:r>
</w:p>
<w:p/>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>jeden</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>dwa</w:t></w:r></w:p>
<w:tbl><w:tblPr><w:jc w:val="center"/></w:tblPr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>Data</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>Podpis</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:p>
  <w:r><w:drawing><w:t>obrazek</w:t></w:drawing></w:r>
  <w:del><w:r><w:delText>skreślone</w:delText></w:r></w:del>
  <w:r><w:t>koniec</w:t></w:r>
</w:p>`
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   document(body),
	})

	got, err := ToHTML(data)
	require.NoError(t, err)

	want := strings.Join([]string{
		`<h1 style="text-align:center">Wniosek urlopowy</h1>`,
		`<p>Proszę o <strong>urlop</strong><em><u>{{date_from}}</u></em><br/>A &amp; B &lt;x&gt;</p>`,
		"<p>\u00a0</p>",
		`<ul><li>jeden</li><li>dwa</li></ul>`,
		`<table border="1" style="border-collapse:collapse;width:100%"><tr><td><p>Data</p></td><td><p>Podpis</p></td></tr></table>`,
		`<p>koniec</p>`,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestToHTML_TabsAndJustify(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": document(`<w:p><w:pPr><w:jc w:val="both"/></w:pPr><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>`),
	})

	got, err := ToHTML(data)

	require.NoError(t, err)
	assert.Equal(t, "<p style=\"text-align:justify\">a\u00a0\u00a0\u00a0\u00a0b</p>", got)
}

func TestToHTML_Invalid(t *testing.T) {
	_, err := ToHTML([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ToHTML(buildDocx(t, map[string]string{"xl/workbook.xml": "<workbook/>"}))
	assert.ErrorIs(t, err, ErrInvalid, "a zip without a Word body")

	_, err = ToHTML(buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:body><w:p>"}))
	assert.ErrorIs(t, err, ErrInvalid, "truncated xml")
}
