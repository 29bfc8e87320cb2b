package output

import (
	"encoding/json"
	"strings"
)

// Offsets is the module → offset name → relative address mapping.
type Offsets map[string]map[string]uint32

func (o Offsets) modules() []string { return sortedKeys(o) }

// WriteCS renders a C# static class of nint constants.
func (o Offsets) WriteCS(f *Formatter) error {
	f.Line("namespace CS2Dumper.Offsets;")
	f.Blank()
	f.Block("public static class GlobalOffsets", "", func() {
		for _, mod := range o.modules() {
			f.Block("public static class "+sanitizeIdentifier(mod, false), "", func() {
				for _, name := range sortedKeys(o[mod]) {
					f.Line("public const nint %s = 0x%X;", sanitizeIdentifier(name, false), o[mod][name])
				}
			})
			f.Blank()
		}
	})
	return f.Err()
}

// WriteHpp renders a C++ header of std::ptrdiff_t constants.
func (o Offsets) WriteHpp(f *Formatter) error {
	f.Line("#pragma once")
	f.Blank()
	f.Line("#include <cstddef>")
	f.Blank()
	f.Block("namespace CS2Dumper::Offsets", "", func() {
		mods := o.modules()
		for i, mod := range mods {
			f.Block("namespace "+sanitizeIdentifier(mod, false), "", func() {
				for _, name := range sortedKeys(o[mod]) {
					f.Line("constexpr std::ptrdiff_t %s = 0x%X;", sanitizeIdentifier(name, false), o[mod][name])
				}
			})
			if i < len(mods)-1 {
				f.Blank()
			}
		}
	})
	return f.Err()
}

// WriteRust renders a Rust module of usize constants.
func (o Offsets) WriteRust(f *Formatter) error {
	f.Block("pub mod cs2_dumper_offsets", "", func() {
		mods := o.modules()
		for i, mod := range mods {
			f.Block("pub mod "+rustModuleName(mod), "", func() {
				for _, name := range sortedKeys(o[mod]) {
					f.Line("pub const %s: usize = 0x%X;", sanitizeIdentifier(name, true), o[mod][name])
				}
			})
			if i < len(mods)-1 {
				f.Blank()
			}
		}
	})
	return f.Err()
}

// WriteJSON renders the nested mapping as pretty-printed JSON with
// sorted keys.
func (o Offsets) WriteJSON(f *Formatter) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	f.Raw(string(data))
	f.Raw("\n")
	return f.Err()
}

// rustModuleName is the module identifier used in generated Rust code.
// Module names are already lowercase dll names, so plain sanitizing
// keeps digits attached ("engine2.dll" -> "engine2_dll").
func rustModuleName(module string) string {
	return strings.ToLower(sanitizeIdentifier(module, false))
}
