package pdf

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// serialize writes every live object in object number order followed by a
// classic cross-reference section. Equal documents give equal bytes.
// Object and cross-reference streams of the source are not carried over.
func (d *Document) serialize() ([]byte, error) {
	var (
		buf     bytes.Buffer
		numbers []int
		size    int
	)
	for nr := range d.ctx.Table {
		numbers = append(numbers, nr)
		if nr >= size {
			size = nr + 1
		}
	}
	sort.Ints(numbers)

	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", d.ctx.VersionString())

	offsets := make(map[int]int, len(numbers))
	generations := make(map[int]int, len(numbers))
	for _, nr := range numbers {
		if nr == 0 {
			continue
		}
		entry := d.ctx.Table[nr]
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		gen := 0
		if entry.Generation != nil {
			gen = *entry.Generation
		}
		o, err := d.ctx.Dereference(*types.NewIndirectRef(nr, gen))
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", nr, err)
		}
		body, err := objectBody(o)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", nr, err)
		}
		if body == nil {
			continue
		}
		offsets[nr], generations[nr] = buf.Len(), gen
		fmt.Fprintf(&buf, "%d %d obj\n", nr, gen)
		buf.Write(body)
		buf.WriteString("\nendobj\n")
	}

	trailer := types.Dict{
		"Size": types.Integer(size),
		"Root": *d.ctx.Root,
		"ID":   d.fileID(buf.Bytes()),
	}
	if d.ctx.Info != nil {
		if _, live := offsets[d.ctx.Info.ObjectNumber.Value()]; live {
			trailer["Info"] = *d.ctx.Info
		}
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	for nr := 0; nr < size; nr++ {
		if offset, live := offsets[nr]; live {
			fmt.Fprintf(&buf, "%010d %05d n \n", offset, generations[nr])
			continue
		}
		buf.WriteString("0000000000 65535 f \n")
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer.PDFString(), xref)
	return buf.Bytes(), nil
}

// objectBody renders o. Nil means the object is dropped.
func objectBody(o types.Object) ([]byte, error) {
	switch v := o.(type) {
	case nil, types.ObjectStreamDict, types.XRefStreamDict:
		return nil, nil
	case types.StreamDict:
		if t := v.Type(); t != nil && (*t == "ObjStm" || *t == "XRef") {
			return nil, nil
		}
		if v.Raw == nil && v.Content != nil {
			if err := v.Encode(); err != nil {
				return nil, err
			}
		}
		dict := v.Dict.Clone().(types.Dict)
		dict["Length"] = types.Integer(len(v.Raw))
		var b bytes.Buffer
		b.WriteString(dict.PDFString())
		b.WriteString("\nstream\n")
		b.Write(v.Raw)
		b.WriteString("\nendstream")
		return b.Bytes(), nil
	}
	return []byte(o.PDFString()), nil
}

// fileID keeps the permanent identifier of the source and derives the
// changing one from the written body.
func (d *Document) fileID(body []byte) types.Array {
	sum := md5.Sum(body)
	changing := types.HexLiteral(hex.EncodeToString(sum[:]))
	permanent := changing
	if len(d.ctx.ID) == 2 {
		if id, ok := d.ctx.ID[0].(types.HexLiteral); ok {
			permanent = id
		}
	}
	return types.Array{permanent, changing}
}
