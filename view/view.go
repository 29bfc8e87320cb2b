// Package view exposes a module's raw image bytes as a structured view:
// header metadata and executable section spans. PE images are decoded
// with debug/pe (with a raw header walk as fallback for images the
// stdlib parser rejects), ELF images with github.com/yalue/elf_reader.
package view

import (
	"bytes"
	"fmt"

	"github.com/HShasti/cs2-dumper/pattern"
)

// View is a decoded module image. Bytes are the mapped image, indexed
// by relative address.
type View interface {
	Bytes() []byte
	CodeRanges() []pattern.Range
	ImageBase() uint64
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Parse decodes raw image bytes, dispatching on the format magic.
func Parse(data []byte) (View, error) {
	switch {
	case len(data) >= 2 && data[0] == 'M' && data[1] == 'Z':
		return parsePE(data)
	case len(data) >= 4 && bytes.Equal(data[:4], elfMagic):
		return parseELF(data)
	}
	return nil, fmt.Errorf("unrecognized image format")
}
