package pdf

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/geoirb/go-booking-pdf/internal/document"
)

const (
	textFieldType = "Tx"

	flagMultiline = 1 << 12
)

// Form of a Document, keyed by fully qualified field name.
type Form struct {
	doc    *Document
	fields map[string]*field
}

// TextField returns the text field with the fully qualified name.
func (f *Form) TextField(name string) (document.Field, error) {
	fld, isExist := f.fields[name]
	if !isExist {
		return nil, fmt.Errorf("%q: %w", name, document.ErrNoField)
	}
	if fld.typ != textFieldType {
		return nil, fmt.Errorf("%q has type %q: %w", name, fld.typ, document.ErrNotText)
	}
	return fld, nil
}

// Names returns the sorted field names.
func (f *Form) Names() []string {
	names := make([]string, 0, len(f.fields))
	for name := range f.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Form) collect(kids types.Array, parent, ft, da string) error {
	for _, o := range kids {
		d, err := f.doc.ctx.DereferenceDict(o)
		if err != nil {
			return fmt.Errorf("field %q: %w", parent, err)
		}
		if d == nil {
			continue
		}

		name := parent
		if t, found := d.Find("T"); found {
			partial, err := f.doc.text(t)
			if err != nil {
				return fmt.Errorf("field name under %q: %w", parent, err)
			}
			name = qualify(parent, partial)
		}

		typ := ft
		if n := d.NameEntry("FT"); n != nil {
			typ = *n
		}

		fieldDA := da
		if o, found := d.Find("DA"); found {
			if fieldDA, err = f.doc.text(o); err != nil {
				return fmt.Errorf("field %q default appearance: %w", name, err)
			}
		}

		children, widgets, err := f.split(d)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		if len(children) > 0 {
			if err = f.collect(children, name, typ, fieldDA); err != nil {
				return err
			}
		}
		if len(widgets) == 0 || name == "" {
			continue
		}

		flags := 0
		if ff := d.IntEntry("Ff"); ff != nil {
			flags = *ff
		}
		f.fields[name] = &field{
			doc:     f.doc,
			dict:    d,
			typ:     typ,
			da:      fieldDA,
			flags:   flags,
			widgets: widgets,
		}
	}
	return nil
}

// split separates the kids of d into child fields and widget annotations.
// A field without kids is its own widget.
func (f *Form) split(d types.Dict) (children types.Array, widgets []types.Dict, err error) {
	o, found := d.Find("Kids")
	if !found {
		return nil, []types.Dict{d}, nil
	}
	kids, err := f.doc.ctx.DereferenceArray(o)
	if err != nil {
		return nil, nil, err
	}
	for _, kid := range kids {
		kd, err := f.doc.ctx.DereferenceDict(kid)
		if err != nil {
			return nil, nil, err
		}
		if kd == nil {
			continue
		}
		if _, isField := kd.Find("T"); isField {
			children = append(children, kid)
			continue
		}
		widgets = append(widgets, kd)
	}
	return children, widgets, nil
}

func qualify(parent, partial string) string {
	if parent == "" {
		return partial
	}
	if partial == "" {
		return parent
	}
	return parent + "." + partial
}

type field struct {
	doc     *Document
	dict    types.Dict
	typ     string
	da      string
	flags   int
	widgets []types.Dict
}

// SetText stores value and regenerates the appearance of every widget.
func (f *field) SetText(value string) error {
	v, err := encodeText(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	f.dict["V"] = v

	for _, w := range f.widgets {
		if err = f.doc.appearance(w, value, fontSize(f.da), f.flags&flagMultiline != 0); err != nil {
			return fmt.Errorf("appearance: %w", err)
		}
	}
	return nil
}
