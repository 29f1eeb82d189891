package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	defaultFontSize = 10.0
	lineSpacing     = 1.15
	padding         = 2.0

	fontResourceName = "Helv"
)

// appearance replaces the normal appearance of widget w with value drawn in Helvetica.
func (d *Document) appearance(w types.Dict, value string, size float64, multiline bool) error {
	_, _, width, height, err := d.rect(w, "Rect")
	if err != nil {
		return err
	}

	content := appearanceContent(value, width, height, size, multiline)
	ir, err := d.newStream(content, types.Dict(map[string]types.Object{
		"Type":    types.Name("XObject"),
		"Subtype": types.Name("Form"),
		"BBox":    types.NewNumberArray(0, 0, width, height),
		"Resources": types.Dict(map[string]types.Object{
			"Font": types.Dict(map[string]types.Object{
				fontResourceName: helvetica(),
			}),
		}),
	}))
	if err != nil {
		return err
	}

	w["AP"] = types.Dict(map[string]types.Object{
		"N": *ir,
	})
	return nil
}

func appearanceContent(value string, width, height, size float64, multiline bool) []byte {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	lines := strings.Split(value, "\n")

	var buf bytes.Buffer
	buf.WriteString("/Tx BMC\nq\n")
	fmt.Fprintf(&buf, "1 1 %s %s re W n\n", num(width-padding), num(height-padding))
	buf.WriteString("BT\n")
	fmt.Fprintf(&buf, "/%s %s Tf 0 g\n", fontResourceName, num(size))
	if multiline || len(lines) > 1 {
		fmt.Fprintf(&buf, "%s TL\n", num(size*lineSpacing))
		fmt.Fprintf(&buf, "%s %s Td\n", num(padding), num(height-padding-size))
		for i, line := range lines {
			if i > 0 {
				buf.WriteString("T*\n")
			}
			fmt.Fprintf(&buf, "%s Tj\n", literal(line))
		}
	} else {
		// baseline roughly centered for Helvetica
		fmt.Fprintf(&buf, "%s %s Td\n", num(padding), num((height-size)/2+0.22*size))
		fmt.Fprintf(&buf, "%s Tj\n", literal(value))
	}
	buf.WriteString("ET\nQ\nEMC\n")
	return buf.Bytes()
}

func helvetica() types.Dict {
	return types.Dict(map[string]types.Object{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	})
}

// fontSize reads the size operand of Tf in a default appearance string.
// Auto size (0) and a missing operator fall back to defaultFontSize.
func fontSize(da string) float64 {
	tokens := strings.Fields(da)
	for i := 1; i < len(tokens); i++ {
		if tokens[i] != "Tf" {
			continue
		}
		if v, err := strconv.ParseFloat(tokens[i-1], 64); err == nil && v > 0 {
			return v
		}
	}
	return defaultFontSize
}

// literal encodes s as a WinAnsi string literal. Runes without a WinAnsi code become '?'.
func literal(s string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok || c < 0x20 {
			c = '?'
		}
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte(')')
	return b.String()
}

// encodeText returns the /V value for s. Non-ASCII text is stored as UTF-16BE with BOM.
func encodeText(s string) (types.Object, error) {
	if isASCII(s) {
		return types.NewHexLiteral([]byte(s)), nil
	}
	b, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return types.NewHexLiteral(b), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
