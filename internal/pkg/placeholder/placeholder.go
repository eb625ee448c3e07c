// Package placeholder fills [[TOKEN]] markers in leave-request HTML bodies.
package placeholder

import (
	"html"
	"strings"
	"time"
)

// Data is everything a request body may refer to. Optional values are
// empty strings.
type Data struct {
	FullName       string
	Address        string
	DateFrom       time.Time
	DateTo         time.Time
	SubmittedAt    time.Time
	CompanyName    string
	CompanyAddress string
	Substitute     string
	Phone          string
	Justification  string
	Signature      string
	// RequestKind is the chosen request kind name, e.g. "urlopu".
	RequestKind    string
	LeaveKind      string
	DepartmentName string
}

const dateLayout = "02.01.2006"

const (
	kindLeave    = "urlopu"
	kindTimeOff  = "czasu wolnego od pracy"
	strikeOpen   = `<span style="text-decoration:line-through;">`
	strikeClose  = `</span>`
	emptySigLine = `<span style="border-bottom:1px dotted #999;display:inline-block;width:200px;height:14px;"></span>`
)

var requestKinds = []string{kindLeave, kindTimeOff}

// Replace substitutes every known token in body. Unknown tokens are left
// in place.
func Replace(body string, d Data) string {
	return newReplacer(values(d)).Replace(body)
}

func values(d Data) map[string]string {
	leaveKind := d.LeaveKind
	if leaveKind == "" {
		leaveKind = "wypoczynkowego"
	}
	return map[string]string{
		"[[IMIE_NAZWISKO]]":          html.EscapeString(d.FullName),
		"[[ADRES]]":                  multiline(d.Address),
		"[[DATA_OD]]":                d.DateFrom.Format(dateLayout),
		"[[DATA_DO]]":                d.DateTo.Format(dateLayout),
		"[[DATA_ZLOZENIA]]":          d.SubmittedAt.Format(dateLayout),
		"[[FIRMA_NAZWA]]":            html.EscapeString(d.CompanyName),
		"[[FIRMA_ADRES]]":            multiline(d.CompanyAddress),
		"[[ZASTEPCA]]":               html.EscapeString(d.Substitute),
		"[[TELEFON]]":                html.EscapeString(d.Phone),
		"[[UZASADNIENIE]]":           html.EscapeString(d.Justification),
		"[[PODPIS]]":                 signature(d.Signature),
		"[[TYP_PODANIA_SKRESLENIE]]": requestKindStrike(d.RequestKind),
		"[[URLOP_CZAS_SKRESLENIE]]":  leaveOrTimeOffStrike(d.RequestKind),
		"[[RODZAJ_URLOPU]]":          html.EscapeString(leaveKind),
		"[[DEPARTAMENT]]":            html.EscapeString(d.DepartmentName),
		"[[ROK]]":                    d.DateFrom.Format("2006"),
	}
}

func newReplacer(vals map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(vals)*2)
	for _, ref := range Reference() {
		pairs = append(pairs, ref.Token, vals[ref.Token])
	}
	return strings.NewReplacer(pairs...)
}

// multiline escapes each line and joins them with <br>.
func multiline(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = html.EscapeString(l)
	}
	return strings.Join(lines, "<br>")
}

func signature(s string) string {
	if s == "" {
		return emptySigLine
	}
	return `<span style="font-style:italic;">` + html.EscapeString(s) + `</span>`
}

func requestKindStrike(chosen string) string {
	if chosen == "" {
		return kindLeave + "(*), " + strikeOpen + kindTimeOff + "(*)" + strikeClose
	}
	parts := make([]string, 0, len(requestKinds))
	for _, k := range requestKinds {
		if k == chosen {
			parts = append(parts, "<strong>"+html.EscapeString(k)+"</strong>")
		} else {
			parts = append(parts, strikeOpen+html.EscapeString(k)+strikeClose)
		}
	}
	return strings.Join(parts, ", ")
}

func leaveOrTimeOffStrike(chosen string) string {
	if chosen == kindTimeOff {
		return strikeOpen + kindLeave + "(*)" + strikeClose + ", " + kindTimeOff + "(*)"
	}
	return kindLeave + "(*), " + strikeOpen + kindTimeOff + "(*)" + strikeClose
}

// ReplaceSample fills body with example data for template previews.
// companyName and companyAddress come from the settings and fall back to
// example values when empty.
func ReplaceSample(body, companyName, companyAddress string, now time.Time) string {
	if companyName == "" {
		companyName = "Przykładowa Firma Sp. z o.o."
	}
	if companyAddress == "" {
		companyAddress = "ul. Firmowa 10\n00-001 Warszawa"
	}
	d := Data{
		FullName:       "Jan Kowalski",
		Address:        "ul. Przykładowa 1\n00-001 Warszawa",
		DateFrom:       time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		DateTo:         time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		SubmittedAt:    now,
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
		Substitute:     "Anna Nowak",
		Phone:          "600 123 456",
		Justification:  "Sprawy rodzinne",
		Signature:      "Jan Kowalski",
		RequestKind:    kindLeave,
		DepartmentName: "Dział IT",
	}
	vals := values(d)
	vals["[[ROK]]"] = now.Format("2006")
	return newReplacer(vals).Replace(body)
}

type Placeholder struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

// Reference lists the supported tokens with Polish descriptions for the
// template editor.
func Reference() []Placeholder {
	return []Placeholder{
		{"[[IMIE_NAZWISKO]]", "Imię i nazwisko pracownika"},
		{"[[ADRES]]", "Adres zamieszkania (z <br>)"},
		{"[[DATA_OD]]", "Data od (dd.mm.YYYY)"},
		{"[[DATA_DO]]", "Data do (dd.mm.YYYY)"},
		{"[[DATA_ZLOZENIA]]", "Data złożenia (dd.mm.YYYY)"},
		{"[[FIRMA_NAZWA]]", "Nazwa firmy z ustawień"},
		{"[[FIRMA_ADRES]]", "Adres firmy (z <br>)"},
		{"[[ZASTEPCA]]", "Zastępca"},
		{"[[TELEFON]]", "Telefon kontaktowy"},
		{"[[UZASADNIENIE]]", "Uzasadnienie (opcjonalne)"},
		{"[[PODPIS]]", "Podpis (tekst lub pusta linia)"},
		{"[[TYP_PODANIA_SKRESLENIE]]", "Typ podania ze skreśleniami (HTML)"},
		{"[[URLOP_CZAS_SKRESLENIE]]", "urlopu / czasu wolnego ze skreśleniem (HTML)"},
		{"[[RODZAJ_URLOPU]]", "Rodzaj urlopu"},
		{"[[DEPARTAMENT]]", "Nazwa departamentu"},
		{"[[ROK]]", "Rok (z daty od)"},
	}
}
