// internal/escpos/codepage.go
package escpos

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// CodePage pairs the ESC t table number with the matching byte encoding
type CodePage struct {
	Name    string
	Number  byte
	Charmap *charmap.Charmap
}

var codePages = map[string]CodePage{
	"PC437":   {Name: "PC437", Number: 0, Charmap: charmap.CodePage437},
	"PC850":   {Name: "PC850", Number: 2, Charmap: charmap.CodePage850},
	"PC860":   {Name: "PC860", Number: 3, Charmap: charmap.CodePage860},
	"PC863":   {Name: "PC863", Number: 4, Charmap: charmap.CodePage863},
	"PC865":   {Name: "PC865", Number: 5, Charmap: charmap.CodePage865},
	"WPC1252": {Name: "WPC1252", Number: 16, Charmap: charmap.Windows1252},
	"PC866":   {Name: "PC866", Number: 17, Charmap: charmap.CodePage866},
	"PC852":   {Name: "PC852", Number: 18, Charmap: charmap.CodePage852},
	"PC858":   {Name: "PC858", Number: 19, Charmap: charmap.CodePage858},
	// Thai Character Code 18, which follows the Windows-874 layout
	"CP874": {Name: "CP874", Number: 26, Charmap: charmap.Windows874},
}

// LookupCodePage resolves a code page by name, case-insensitively
func LookupCodePage(name string) (CodePage, error) {
	if name == "" {
		return codePages["PC437"], nil
	}
	cp, ok := codePages[strings.ToUpper(name)]
	if !ok {
		return CodePage{}, fmt.Errorf("unsupported code page: %s", name)
	}
	return cp, nil
}

// EncodeText converts text to the code page, replacing unmappable runes with '?'
func (cp CodePage) EncodeText(s string) ([]byte, error) {
	if cp.Charmap == nil {
		return nil, fmt.Errorf("code page %s has no character map", cp.Name)
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cp.Charmap.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out, nil
}
