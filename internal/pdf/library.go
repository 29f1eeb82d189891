// Package pdf implements the document capability on top of pdfcpu.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/geoirb/go-booking-pdf/internal/document"
)

var errEncrypted = errors.New("encrypted documents are not supported")

// Library loads PDF documents with pdfcpu.
type Library struct {
	conf *model.Configuration
	read func(io.ReadSeeker, *model.Configuration) (*model.Context, error)
}

// NewLibrary ...
func NewLibrary() *Library {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Library{
		conf: conf,
		read: api.ReadContext,
	}
}

// Load parses b. Every call returns an independent document.
// A panic of the parser on malformed input is returned as an error.
func (l *Library) Load(b []byte) (h document.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = nil, fmt.Errorf("read pdf: panic: %v", r)
		}
	}()

	ctx, err := l.read(bytes.NewReader(b), l.conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if ctx.Encrypt != nil {
		return nil, errEncrypted
	}
	if err = api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}
	if err = ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// Document is a parsed PDF.
type Document struct {
	ctx *model.Context
}

// Form collects the AcroForm fields of the document.
// A document without AcroForm has an empty form.
func (d *Document) Form() (document.Form, error) {
	return d.form()
}

func (d *Document) form() (*Form, error) {
	f := &Form{
		doc:    d,
		fields: make(map[string]*field),
	}

	root, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	o, found := root.Find("AcroForm")
	if !found {
		return f, nil
	}
	acroForm, err := d.ctx.DereferenceDict(o)
	if err != nil {
		return nil, fmt.Errorf("acroform: %w", err)
	}
	if acroForm == nil {
		return f, nil
	}

	da := ""
	if o, found := acroForm.Find("DA"); found {
		if da, err = d.text(o); err != nil {
			return nil, fmt.Errorf("acroform default appearance: %w", err)
		}
	}

	o, found = acroForm.Find("Fields")
	if !found {
		return f, nil
	}
	fields, err := d.ctx.DereferenceArray(o)
	if err != nil {
		return nil, fmt.Errorf("acroform fields: %w", err)
	}
	if err = f.collect(fields, "", "", da); err != nil {
		return nil, err
	}
	return f, nil
}

// Save serializes the document.
func (d *Document) Save() ([]byte, error) {
	b, err := d.serialize()
	if err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return b, nil
}

// text decodes a PDF text string, following indirect references.
func (d *Document) text(o types.Object) (string, error) {
	o, err := d.ctx.Dereference(o)
	if err != nil {
		return "", err
	}
	switch v := o.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(v)
	case types.HexLiteral:
		return types.HexLiteralToString(v)
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("unexpected text object %T", o)
}

func (d *Document) number(o types.Object) (float64, error) {
	o, err := d.ctx.Dereference(o)
	if err != nil {
		return 0, err
	}
	switch v := o.(type) {
	case types.Integer:
		return float64(v), nil
	case types.Float:
		return float64(v), nil
	}
	return 0, fmt.Errorf("unexpected number object %T", o)
}

// rect returns the lower left corner, width and height of a rectangle entry.
func (d *Document) rect(dict types.Dict, key string) (x, y, w, h float64, err error) {
	o, found := dict.Find(key)
	if !found {
		return 0, 0, 0, 0, fmt.Errorf("missing %s", key)
	}
	arr, err := d.ctx.DereferenceArray(o)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(arr) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%s has %d elements", key, len(arr))
	}
	var c [4]float64
	for i := range arr {
		if c[i], err = d.number(arr[i]); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("%s: %w", key, err)
		}
	}
	llx, urx := minMax(c[0], c[2])
	lly, ury := minMax(c[1], c[3])
	return llx, lly, urx - llx, ury - lly, nil
}

func (d *Document) newStream(content []byte, entries types.Dict) (*types.IndirectRef, error) {
	sd, err := d.ctx.NewStreamDictForBuf(content)
	if err != nil {
		return nil, err
	}
	for k, v := range entries {
		sd.Dict[k] = v
	}
	if err = sd.Encode(); err != nil {
		return nil, err
	}
	return d.ctx.IndRefForNewObject(*sd)
}

func minMax(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
