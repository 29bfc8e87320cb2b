package output

import (
	"encoding/json"
	"sort"
)

// Patterns is the module → offset name → signature text mapping,
// rendered so consumers can regenerate or audit the signatures.
type Patterns map[string]map[string]string

func (p Patterns) modules() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteCS renders a C# static class of verbatim string constants.
func (p Patterns) WriteCS(f *Formatter) error {
	f.Line("namespace CS2Dumper.Patterns;")
	f.Blank()
	f.Block("public static class GlobalPatterns", "", func() {
		for _, mod := range p.modules() {
			f.Block("public static class "+sanitizeIdentifier(mod, false), "", func() {
				for _, name := range sortedKeys(p[mod]) {
					f.Line("public const string %s = @\"%s\";", sanitizeIdentifier(name, false), p[mod][name])
				}
			})
			f.Blank()
		}
	})
	return f.Err()
}

// WriteHpp renders a C++ header of raw string literal constants.
func (p Patterns) WriteHpp(f *Formatter) error {
	f.Line("#pragma once")
	f.Blank()
	f.Block("namespace CS2Dumper::Patterns", "", func() {
		mods := p.modules()
		for i, mod := range mods {
			f.Block("namespace "+sanitizeIdentifier(mod, false), "", func() {
				for _, name := range sortedKeys(p[mod]) {
					f.Line("constexpr const char* %s = R\"-(%s)-\";", sanitizeIdentifier(name, false), p[mod][name])
				}
			})
			if i < len(mods)-1 {
				f.Blank()
			}
		}
	})
	return f.Err()
}

// WriteRust renders a Rust module of raw string constants.
func (p Patterns) WriteRust(f *Formatter) error {
	f.Block("pub mod cs2_dumper_patterns", "", func() {
		mods := p.modules()
		for i, mod := range mods {
			f.Block("pub mod "+rustModuleName(mod), "", func() {
				for _, name := range sortedKeys(p[mod]) {
					f.Line("pub const %s: &str = r#\"%s\"#;", sanitizeIdentifier(name, true), p[mod][name])
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
func (p Patterns) WriteJSON(f *Formatter) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	f.Raw(string(data))
	f.Raw("\n")
	return f.Err()
}
