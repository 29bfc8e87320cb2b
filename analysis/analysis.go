// Package analysis resolves named memory offsets in the target
// process's modules by matching byte signatures against each module's
// mapped image. A stale signature only costs its own entry; a missing
// module aborts the whole pass.
package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/HShasti/cs2-dumper/memory"
	"github.com/HShasti/cs2-dumper/pattern"
	"github.com/HShasti/cs2-dumper/view"
)

// Process supplies module lookup and raw image reads. Implemented by
// memory.Process; tests substitute fakes.
type Process interface {
	ModuleByName(name string) (memory.Module, error)
	ReadModule(m memory.Module) ([]byte, error)
}

// OffsetMap maps module name to offset name to relative address.
type OffsetMap = map[string]map[string]uint32

// PatternMap maps module name to offset name to signature text.
type PatternMap = map[string]map[string]string

// Callback derives additional offsets after a definition's primary
// match: either a secondary scan anchored anywhere in the module, or
// arithmetic on the base relative address. Callbacks insert new
// entries; they never remove ones produced by earlier definitions.
type Callback func(v view.View, offsets map[string]uint32, rva uint32)

// Definition is one named signature, compiled once at construction.
type Definition struct {
	Name      string
	Signature string
	Pattern   *pattern.Pattern
	Callback  Callback
}

// ModuleCatalog is the ordered definition list for one module.
type ModuleCatalog struct {
	Module string
	Defs   []Definition
}

func define(name, signature string) Definition {
	return Definition{Name: name, Signature: signature, Pattern: pattern.MustCompile(signature)}
}

func defineWith(name, signature string, cb Callback) Definition {
	d := define(name, signature)
	d.Callback = cb
	return d
}

// newModuleCatalog rejects authoring bugs up front: a duplicate name
// would silently overwrite an earlier entry, and a signature without a
// capture token has no offset to record.
func newModuleCatalog(module string, defs ...Definition) ModuleCatalog {
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if _, ok := seen[d.Name]; ok {
			panic(fmt.Sprintf("catalog %s: duplicate definition %q", module, d.Name))
		}
		seen[d.Name] = struct{}{}
		if d.Pattern.SaveLen() < 2 {
			panic(fmt.Sprintf("catalog %s: definition %q captures nothing", module, d.Name))
		}
	}
	return ModuleCatalog{Module: module, Defs: defs}
}

// resolveModule runs every definition of one module in catalog order.
// Signature text is recorded for every definition; offsets only for
// the ones whose pattern still matches. Stale definition names are
// returned in catalog order for the caller to report: module tasks
// share no mutable state, so they must not write to a shared log sink
// either.
func resolveModule(v view.View, defs []Definition) (map[string]uint32, map[string]string, []string) {
	offsets := make(map[string]uint32, len(defs))
	patterns := make(map[string]string, len(defs))
	var stale []string
	scanner := pattern.NewScanner(v)

	for _, d := range defs {
		patterns[d.Name] = d.Signature

		save := make([]uint32, d.Pattern.SaveLen())
		if !scanner.FindsCode(d.Pattern, save) {
			stale = append(stale, d.Name)
			continue
		}

		rva := save[1]
		offsets[d.Name] = rva

		if d.Callback != nil {
			d.Callback(v, offsets, rva)
		}
	}

	return offsets, patterns, stale
}

// logModule emits one module's diagnostics: stale definitions at error
// level, resolved offsets at debug level in name order.
func logModule(log zerolog.Logger, mod string, v view.View, offsets map[string]uint32, stale []string) {
	for _, name := range stale {
		log.Error().Str("module", mod).Str("pattern", name).Msg("outdated pattern")
	}

	names := make([]string, 0, len(offsets))
	for name := range offsets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rva := offsets[name]
		log.Debug().
			Str("name", name).
			Str("address", fmt.Sprintf("%#x", v.ImageBase()+uint64(rva))).
			Str("offset", fmt.Sprintf("%s + %#x", mod, rva)).
			Msg("found offset")
	}
}

// ResolveAll resolves every module in list order. Module lookup, image
// read and image decode failures are fatal for the whole pass: no
// partial aggregate is returned. Images are acquired sequentially so
// fatal errors surface in list order; scanning then runs concurrently,
// one goroutine per module, since modules share no state. Diagnostics
// are emitted here after the workers finish, so the log writer is only
// ever touched from one goroutine.
func ResolveAll(log zerolog.Logger, proc Process, catalogs []ModuleCatalog) (OffsetMap, PatternMap, error) {
	views := make([]view.View, len(catalogs))
	for i, c := range catalogs {
		m, err := proc.ModuleByName(c.Module)
		if err != nil {
			return nil, nil, err
		}
		buf, err := proc.ReadModule(m)
		if err != nil {
			return nil, nil, err
		}
		v, err := view.Parse(buf)
		if err != nil {
			return nil, nil, fmt.Errorf("parse image of %s: %w", c.Module, err)
		}
		views[i] = v
	}

	type result struct {
		offsets  map[string]uint32
		patterns map[string]string
		stale    []string
	}
	results := make([]result, len(catalogs))

	var wg sync.WaitGroup
	for i, c := range catalogs {
		wg.Add(1)
		go func(i int, c ModuleCatalog) {
			defer wg.Done()
			offsets, patterns, stale := resolveModule(views[i], c.Defs)
			results[i] = result{offsets: offsets, patterns: patterns, stale: stale}
		}(i, c)
	}
	wg.Wait()

	offsetMap := make(OffsetMap, len(catalogs))
	patternMap := make(PatternMap, len(catalogs))
	for i, c := range catalogs {
		logModule(log, c.Module, views[i], results[i].offsets, results[i].stale)
		offsetMap[c.Module] = results[i].offsets
		patternMap[c.Module] = results[i].patterns
	}
	return offsetMap, patternMap, nil
}

// Offsets resolves the built-in catalog against the target process.
func Offsets(log zerolog.Logger, proc Process) (OffsetMap, PatternMap, error) {
	return ResolveAll(log, proc, Catalogs())
}
