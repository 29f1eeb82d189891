// Package inspect lists the AcroForm fields of a PDF without modifying it.
package inspect

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Field types.
const (
	TextType   = "Text"
	ButtonType = "Button"
	ChoiceType = "Choice"
	OtherType  = "Other"
)

// FormField of a template.
type FormField struct {
	Name         string
	Type         string
	CurrentValue string
}

// Fields returns the terminal form fields of the document in b, in document order.
func Fields(b []byte) (fields []FormField, err error) {
	defer func() {
		// the reader panics on some malformed objects
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("cannot read pdf: %w", err)
	}

	pfields := r.Trailer().Key("Root").Key("AcroForm").Key("Fields")
	fields = make([]FormField, 0, pfields.Len())
	for i := 0; i < pfields.Len(); i++ {
		fields = collect(fields, pfields.Index(i), "", "")
	}
	return fields, nil
}

// Missing returns the names that are absent from fields or are not text fields.
func Missing(fields []FormField, names ...string) []string {
	byName := make(map[string]FormField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var missing []string
	for _, name := range names {
		if f, ok := byName[name]; !ok || f.Type != TextType {
			missing = append(missing, name)
		}
	}
	return missing
}

func collect(fields []FormField, pfield pdf.Value, parent, ft string) []FormField {
	name := parent
	if t := pfield.Key("T"); !t.IsNull() {
		if name != "" {
			name += "."
		}
		name += t.Text()
	}
	if tp := pfield.Key("FT"); !tp.IsNull() {
		ft = tp.Name()
	}

	kids := pfield.Key("Kids")
	hasChildren := false
	for i := 0; i < kids.Len(); i++ {
		if kid := kids.Index(i); !kid.Key("T").IsNull() {
			hasChildren = true
			fields = collect(fields, kid, name, ft)
		}
	}
	if hasChildren || name == "" {
		return fields
	}

	return append(fields, FormField{
		Name:         name,
		Type:         kind(ft),
		CurrentValue: pfield.Key("V").Text(),
	})
}

func kind(ft string) string {
	switch ft {
	case "Tx":
		return TextType
	case "Btn":
		return ButtonType
	case "Ch":
		return ChoiceType
	}
	return OtherType
}
