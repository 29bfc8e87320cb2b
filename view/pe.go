package view

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"

	"github.com/HShasti/cs2-dumper/pattern"
)

// PEView is a decoded PE module image.
type PEView struct {
	data      []byte
	imageBase uint64
	code      []pattern.Range
}

func (v *PEView) Bytes() []byte               { return v.data }
func (v *PEView) CodeRanges() []pattern.Range { return v.code }
func (v *PEView) ImageBase() uint64           { return v.imageBase }

func parsePE(data []byte) (*PEView, error) {
	if len(data) < 64 {
		return nil, fmt.Errorf("pe: image too small")
	}

	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		// Dumped images sometimes trip the stdlib parser (truncated
		// string tables, scrubbed directories); fall back to walking
		// the headers by hand.
		return parsePERaw(data)
	}
	defer f.Close()

	v := &PEView{data: data}
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		v.imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		v.imageBase = oh.ImageBase
	default:
		return nil, fmt.Errorf("pe: missing optional header")
	}

	for _, s := range f.Sections {
		if s.Characteristics&pe.IMAGE_SCN_MEM_EXECUTE == 0 {
			continue
		}
		size := s.VirtualSize
		if size == 0 {
			size = s.Size
		}
		v.code = append(v.code, pattern.Range{
			Start: s.VirtualAddress,
			End:   s.VirtualAddress + size,
		})
	}
	if len(v.code) == 0 {
		return nil, fmt.Errorf("pe: no executable sections")
	}
	return v, nil
}

// parsePERaw recovers image base and executable section spans straight
// from the header bytes.
func parsePERaw(data []byte) (*PEView, error) {
	peOff := int(binary.LittleEndian.Uint32(data[60:64]))
	if peOff < 0 || peOff+24 >= len(data) {
		return nil, fmt.Errorf("pe: invalid header offset")
	}
	if string(data[peOff:peOff+4]) != "PE\x00\x00" {
		return nil, fmt.Errorf("pe: invalid signature")
	}

	numSections := int(binary.LittleEndian.Uint16(data[peOff+6 : peOff+8]))
	optSize := int(binary.LittleEndian.Uint16(data[peOff+20 : peOff+22]))
	optOff := peOff + 24
	if optOff+2 > len(data) || optSize < 2 {
		return nil, fmt.Errorf("pe: optional header truncated")
	}

	v := &PEView{data: data}
	magic := binary.LittleEndian.Uint16(data[optOff : optOff+2])
	switch magic {
	case 0x10b:
		if optOff+32 > len(data) {
			return nil, fmt.Errorf("pe: optional header truncated")
		}
		v.imageBase = uint64(binary.LittleEndian.Uint32(data[optOff+28 : optOff+32]))
	case 0x20b:
		if optOff+32 > len(data) {
			return nil, fmt.Errorf("pe: optional header truncated")
		}
		v.imageBase = binary.LittleEndian.Uint64(data[optOff+24 : optOff+32])
	default:
		return nil, fmt.Errorf("pe: unknown optional header magic 0x%x", magic)
	}

	shOff := optOff + optSize
	if shOff+numSections*40 > len(data) {
		return nil, fmt.Errorf("pe: section headers extend beyond image")
	}
	for i := 0; i < numSections; i++ {
		h := data[shOff+i*40 : shOff+(i+1)*40]
		characteristics := binary.LittleEndian.Uint32(h[36:40])
		if characteristics&0x20000000 == 0 { // IMAGE_SCN_MEM_EXECUTE
			continue
		}
		vsize := binary.LittleEndian.Uint32(h[8:12])
		vaddr := binary.LittleEndian.Uint32(h[12:16])
		if vsize == 0 {
			vsize = binary.LittleEndian.Uint32(h[16:20])
		}
		v.code = append(v.code, pattern.Range{Start: vaddr, End: vaddr + vsize})
	}
	if len(v.code) == 0 {
		return nil, fmt.Errorf("pe: no executable sections")
	}
	return v, nil
}
