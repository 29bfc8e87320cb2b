//go:build linux

package memory

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Process reads a target process's memory through procfs on Linux.
type Process struct {
	pid     int32
	mem     *os.File
	modules []Module
}

// Open attaches to the named process and snapshots its module list
// from /proc/<pid>/maps.
func Open(processName string) (*Process, error) {
	pid, err := findPID(processName)
	if err != nil {
		return nil, err
	}

	maps, err := os.ReadFile(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, fmt.Errorf("read maps of %d: %w", pid, err)
	}

	mem, err := os.Open(fmt.Sprintf("/proc/%d/mem", pid))
	if err != nil {
		return nil, fmt.Errorf("open mem of %d: %w", pid, err)
	}

	return &Process{pid: pid, mem: mem, modules: parseMaps(maps)}, nil
}

func (p *Process) Close() error {
	return p.mem.Close()
}

func (p *Process) ModuleByName(name string) (Module, error) {
	for _, m := range p.modules {
		if m.Name == name {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// ReadModule reads the module's full mapped image. Unreadable pages are
// left zeroed.
func (p *Process) ReadModule(m Module) ([]byte, error) {
	data := make([]byte, m.Size)
	if _, err := p.mem.ReadAt(data, int64(m.Base)); err != nil {
		const pageSize = 4096
		read := 0
		for off := 0; off < len(data); off += pageSize {
			end := off + pageSize
			if end > len(data) {
				end = len(data)
			}
			if _, err := p.mem.ReadAt(data[off:end], int64(m.Base)+int64(off)); err == nil {
				read++
			}
		}
		if read == 0 {
			return nil, fmt.Errorf("read module %s: %w", m.Name, err)
		}
	}
	return data, nil
}

// parseMaps collapses /proc/<pid>/maps lines into one Module per mapped
// file: base is the lowest mapping start, size spans to the highest end.
func parseMaps(maps []byte) []Module {
	type span struct {
		base uint64
		end  uint64
	}
	spans := make(map[string]*span)
	var order []string

	sc := bufio.NewScanner(bytes.NewReader(maps))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 || !strings.HasPrefix(fields[5], "/") {
			continue
		}
		addrs := strings.SplitN(fields[0], "-", 2)
		if len(addrs) != 2 {
			continue
		}
		start, err1 := strconv.ParseUint(addrs[0], 16, 64)
		end, err2 := strconv.ParseUint(addrs[1], 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		name := filepath.Base(fields[5])
		s, ok := spans[name]
		if !ok {
			spans[name] = &span{base: start, end: end}
			order = append(order, name)
			continue
		}
		if start < s.base {
			s.base = start
		}
		if end > s.end {
			s.end = end
		}
	}

	modules := make([]Module, 0, len(order))
	for _, name := range order {
		s := spans[name]
		modules = append(modules, Module{
			Name: name,
			Base: s.base,
			Size: uint32(s.end - s.base),
		})
	}
	return modules
}
