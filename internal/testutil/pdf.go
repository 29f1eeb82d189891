// Package testutil builds small AcroForm documents for tests.
package testutil

import (
	"bytes"
	"fmt"
)

// FormField describes one field of a generated form.
type FormField struct {
	Name string
	// Type is the /FT name, "Tx" when empty.
	Type  string
	Value string
}

// TextFields returns text fields with the given names.
func TextFields(names ...string) []FormField {
	fields := make([]FormField, 0, len(names))
	for _, name := range names {
		fields = append(fields, FormField{Name: name})
	}
	return fields
}

// FormPDF returns a one page PDF whose AcroForm holds fields, each with its own
// widget stacked down the page. The page content draws a fixed title.
func FormPDF(fields []FormField) []byte {
	const (
		catalog = 1
		pages   = 2
		page    = 3
		content = 4
		font    = 5
		first   = 6
	)

	refs := ""
	for i := range fields {
		refs += fmt.Sprintf("%d 0 R ", first+i)
	}

	title := "BT /F1 18 Tf 72 760 Td (Court booking) Tj ET"
	objects := []string{
		catalog: fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R /AcroForm << /Fields [%s] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv %d 0 R >> >> >> >>", pages, refs, font),
		pages:   fmt.Sprintf("<< /Type /Pages /Kids [%d 0 R] /Count 1 >>", page),
		page:    fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R /Annots [%s] >>", pages, font, content, refs),
		content: fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(title), title),
		font:    "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, f := range fields {
		typ := f.Type
		if typ == "" {
			typ = "Tx"
		}
		y := 700 - 40*i
		obj := fmt.Sprintf("<< /Type /Annot /Subtype /Widget /FT /%s /T (%s) /Rect [72 %d 372 %d] /F 4 /P %d 0 R /DA (/Helv 12 Tf 0 g)", typ, f.Name, y, y+24, page)
		if f.Value != "" {
			obj += fmt.Sprintf(" /V (%s)", f.Value)
		}
		objects = append(objects, obj+" >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for nr := 1; nr < len(objects); nr++ {
		offsets[nr] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", nr, objects[nr])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects))
	buf.WriteString("0000000000 65535 f \n")
	for nr := 1; nr < len(objects); nr++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[nr])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects), catalog, xref)
	return buf.Bytes()
}
