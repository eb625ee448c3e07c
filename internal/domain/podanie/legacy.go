package podanie

// Built-in kinds used by shift types that have no template of their own.
const (
	LegacyLeave      = "urlop"
	LegacyRemoteWork = "praca_zdalna"
	LegacyOvertime   = "nadgodziny"
	LegacyChildCare  = "opieka"
)

var legacyLabels = map[string]string{
	LegacyLeave:      "Podanie o urlop",
	LegacyRemoteWork: "Wniosek o pracę zdalną",
	LegacyOvertime:   "Wniosek o odbiór nadgodzin",
	LegacyChildCare:  "Opieka nad dzieckiem",
}

// NormalizeLegacy maps unknown or empty kinds to urlop.
func NormalizeLegacy(kind string) string {
	if _, ok := legacyLabels[kind]; ok {
		return kind
	}
	return LegacyLeave
}

func LegacyLabel(kind string) string {
	return legacyLabels[NormalizeLegacy(kind)]
}

// LegacyTemplate returns the built-in template of a legacy kind. Only urlop
// collects the optional fields.
func LegacyTemplate(kind string) Template {
	kind = NormalizeLegacy(kind)
	t := Template{Name: legacyLabels[kind], BodyHTML: legacyBodies[kind], Active: true}
	if kind == LegacyLeave {
		t.FormFields = []string{FieldSubstitute, FieldPhone, FieldRequestKind, FieldLeaveKind, FieldSignature, FieldAddress}
	} else {
		t.FormFields = []string{FieldSignature, FieldAddress}
	}
	return t
}

const letterHead = `<p>[[IMIE_NAZWISKO]]<br>[[ADRES]]</p>
<p>[[DEPARTAMENT]]</p>
<p><strong>[[FIRMA_NAZWA]]</strong><br>[[FIRMA_ADRES]]</p>
`

const letterFoot = `<p>Data złożenia: [[DATA_ZLOZENIA]]</p>
<p>[[PODPIS]]<br>podpis pracownika</p>
`

var legacyBodies = map[string]string{
	LegacyLeave: letterHead + `<h2>PODANIE</h2>
<p>Proszę o udzielenie mi [[TYP_PODANIA_SKRESLENIE]] w dniach od [[DATA_OD]] do [[DATA_DO]].</p>
<p>Rodzaj urlopu: [[RODZAJ_URLOPU]] za rok [[ROK]].</p>
<p>W czasie mojej nieobecności zastępować mnie będzie: [[ZASTEPCA]].<br>Telefon kontaktowy: [[TELEFON]]</p>
` + letterFoot,
	LegacyRemoteWork: letterHead + `<h2>WNIOSEK O PRACĘ ZDALNĄ</h2>
<p>Zwracam się z prośbą o wyrażenie zgody na wykonywanie pracy zdalnej w dniach od [[DATA_OD]] do [[DATA_DO]].</p>
` + letterFoot,
	LegacyOvertime: letterHead + `<h2>WNIOSEK O ODBIÓR NADGODZIN</h2>
<p>Proszę o udzielenie czasu wolnego w zamian za przepracowane godziny nadliczbowe w dniach od [[DATA_OD]] do [[DATA_DO]].</p>
` + letterFoot,
	LegacyChildCare: letterHead + `<h2>WNIOSEK O ZWOLNIENIE OD PRACY</h2>
<p>Proszę o udzielenie zwolnienia od pracy w celu sprawowania opieki nad dzieckiem (art. 188 Kodeksu pracy) w dniach od [[DATA_OD]] do [[DATA_DO]].</p>
` + letterFoot,
}
