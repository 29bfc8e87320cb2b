package view

import (
	"fmt"

	"github.com/yalue/elf_reader"

	"github.com/HShasti/cs2-dumper/pattern"
)

// ELFView is a decoded ELF module image (the Linux client libraries).
type ELFView struct {
	data      []byte
	imageBase uint64
	code      []pattern.Range
}

func (v *ELFView) Bytes() []byte               { return v.data }
func (v *ELFView) CodeRanges() []pattern.Range { return v.code }
func (v *ELFView) ImageBase() uint64           { return v.imageBase }

func parseELF(data []byte) (*ELFView, error) {
	f, err := elf_reader.ParseELFFile(data)
	if err != nil {
		return nil, fmt.Errorf("elf: %w", err)
	}

	v := &ELFView{data: data}

	// Image base is the lowest loadable segment address; shared
	// objects load at 0.
	base := ^uint64(0)
	for i := uint16(0); i < f.GetSegmentCount(); i++ {
		phdr, err := f.GetProgramHeader(i)
		if err != nil {
			continue
		}
		if phdr.GetType() == elf_reader.ProgramHeaderType(1) { // PT_LOAD
			if addr := phdr.GetVirtualAddress(); addr < base {
				base = addr
			}
		}
	}
	if base != ^uint64(0) {
		v.imageBase = base
	}

	for i := uint16(0); i < f.GetSectionCount(); i++ {
		hdr, err := f.GetSectionHeader(i)
		if err != nil {
			continue
		}
		if !hdr.GetFlags().Executable() {
			continue
		}
		start := hdr.GetVirtualAddress() - v.imageBase
		v.code = append(v.code, pattern.Range{
			Start: uint32(start),
			End:   uint32(start + hdr.GetSize()),
		})
	}
	if len(v.code) == 0 {
		return nil, fmt.Errorf("elf: no executable sections")
	}
	return v, nil
}
