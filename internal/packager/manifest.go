package packager

import (
	"bytes"
	"unicode/utf8"
)

// ManifestPath is the archive path of the manifest entry.
const ManifestPath = "META-INF/MANIFEST.MF"

// maxLineBytes is the manifest line length limit, excluding the line break.
const maxLineBytes = 72

// Attribute is one manifest header.
type Attribute struct {
	Name  string
	Value string
}

// Manifest is the main section of an archive manifest.
type Manifest struct {
	CreatedBy  string
	MainClass  string
	Attributes []Attribute
}

// Bytes renders the manifest with CRLF line breaks and continuation lines.
func (m Manifest) Bytes() []byte {
	var b bytes.Buffer
	writeHeader(&b, "Manifest-Version", "1.0")
	if m.CreatedBy != "" {
		writeHeader(&b, "Created-By", m.CreatedBy)
	}
	if m.MainClass != "" {
		writeHeader(&b, "Main-Class", m.MainClass)
	}
	for _, a := range m.Attributes {
		writeHeader(&b, a.Name, a.Value)
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// writeHeader writes "name: value", folding at maxLineBytes. Continuation
// lines start with one space. Lines are never split inside a UTF-8 sequence.
func writeHeader(b *bytes.Buffer, name, value string) {
	line := name + ": " + value
	limit := maxLineBytes
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			// No rune boundary in reach; split the invalid bytes as they are.
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineBytes - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
