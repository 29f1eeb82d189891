package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	annotFlagHidden = 1 << 1

	xObjectPrefix = "FlatFld"
)

// Flatten draws the normal appearance of every widget annotation into its page,
// removes the widgets and drops the AcroForm. The form is empty afterwards.
func (f *Form) Flatten() error {
	ctx := f.doc.ctx
	for nr := 1; nr <= ctx.PageCount; nr++ {
		page, _, _, err := ctx.PageDict(nr, true)
		if err != nil {
			return fmt.Errorf("page %d: %w", nr, err)
		}
		if page == nil {
			continue
		}
		if err = f.doc.flattenPage(page); err != nil {
			return fmt.Errorf("page %d: %w", nr, err)
		}
	}

	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	delete(root, "AcroForm")
	f.fields = make(map[string]*field)
	return nil
}

func (d *Document) flattenPage(page types.Dict) error {
	o, found := page.Find("Annots")
	if !found {
		return nil
	}
	annots, err := d.ctx.DereferenceArray(o)
	if err != nil {
		return err
	}

	var (
		kept    types.Array
		draw    bytes.Buffer
		xObject types.Dict
	)
	for _, o := range annots {
		a, err := d.ctx.DereferenceDict(o)
		if err != nil {
			return err
		}
		if a == nil {
			continue
		}
		if st := a.NameEntry("Subtype"); st == nil || *st != "Widget" {
			kept = append(kept, o)
			continue
		}

		ap, err := d.normalAppearance(a)
		if err != nil {
			return err
		}
		if ap == nil || hidden(a) {
			continue
		}
		if xObject == nil {
			if xObject, err = d.xObjectResources(page); err != nil {
				return err
			}
		}

		x, y, _, _, err := d.rect(a, "Rect")
		if err != nil {
			return err
		}
		bx, by := 0.0, 0.0
		if sd, _, err := d.ctx.DereferenceStreamDict(*ap); err == nil && sd != nil {
			if llx, lly, _, _, err := d.rect(sd.Dict, "BBox"); err == nil {
				bx, by = llx, lly
			}
		}

		name := freeName(xObject)
		xObject[name] = *ap
		fmt.Fprintf(&draw, "q 1 0 0 1 %s %s cm /%s Do Q\n", num(x-bx), num(y-by), name)
	}

	if len(kept) > 0 {
		page["Annots"] = kept
	} else {
		delete(page, "Annots")
	}
	if draw.Len() == 0 {
		return nil
	}
	return d.appendContent(page, draw.Bytes())
}

// normalAppearance returns the reference of the /N appearance stream of a widget.
// State dictionaries (check boxes, radio buttons) resolve through /AS.
func (d *Document) normalAppearance(a types.Dict) (*types.IndirectRef, error) {
	o, found := a.Find("AP")
	if !found {
		return nil, nil
	}
	ap, err := d.ctx.DereferenceDict(o)
	if err != nil || ap == nil {
		return nil, err
	}
	n, found := ap.Find("N")
	if !found {
		return nil, nil
	}
	if ir, ok := n.(types.IndirectRef); ok {
		obj, err := d.ctx.Dereference(ir)
		if err != nil {
			return nil, err
		}
		if _, isStream := obj.(types.StreamDict); isStream {
			return &ir, nil
		}
		n = obj
	}
	states, ok := n.(types.Dict)
	if !ok {
		return nil, nil
	}
	as := a.NameEntry("AS")
	if as == nil {
		return nil, nil
	}
	if ir, ok := states[*as].(types.IndirectRef); ok {
		return &ir, nil
	}
	return nil, nil
}

func hidden(a types.Dict) bool {
	f := a.IntEntry("F")
	return f != nil && *f&annotFlagHidden != 0
}

func (d *Document) xObjectResources(page types.Dict) (types.Dict, error) {
	res, err := d.ctx.DereferenceDict(page["Resources"])
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = types.NewDict()
		page["Resources"] = res
	}
	xObject, err := d.ctx.DereferenceDict(res["XObject"])
	if err != nil {
		return nil, err
	}
	if xObject == nil {
		xObject = types.NewDict()
		res["XObject"] = xObject
	}
	return xObject, nil
}

func freeName(xObject types.Dict) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s%d", xObjectPrefix, i)
		if _, taken := xObject[name]; !taken {
			return name
		}
	}
}

// appendContent isolates the existing page content in q/Q and appends draw after it.
func (d *Document) appendContent(page types.Dict, draw []byte) error {
	pre, err := d.newStream([]byte("q\n"), nil)
	if err != nil {
		return err
	}
	post, err := d.newStream(append([]byte("Q\n"), draw...), nil)
	if err != nil {
		return err
	}

	contents := types.Array{*pre}
	switch o := page["Contents"].(type) {
	case types.IndirectRef:
		obj, err := d.ctx.Dereference(o)
		if err != nil {
			return err
		}
		if arr, ok := obj.(types.Array); ok {
			contents = append(contents, arr...)
		} else {
			contents = append(contents, o)
		}
	case types.Array:
		contents = append(contents, o...)
	}
	page["Contents"] = append(contents, *post)
	return nil
}
