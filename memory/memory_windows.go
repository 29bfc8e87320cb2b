//go:build windows

package memory

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Process is an open handle to the target process on Windows.
type Process struct {
	handle  windows.Handle
	pid     uint32
	modules []Module
}

// Open attaches to the named process and snapshots its module list.
func Open(processName string) (*Process, error) {
	pid, err := findPID(processName)
	if err != nil {
		return nil, err
	}

	h, err := windows.OpenProcess(
		windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}

	p := &Process{handle: h, pid: uint32(pid)}
	if p.modules, err = enumModules(h, uint32(pid)); err != nil {
		_ = windows.CloseHandle(h)
		return nil, err
	}
	return p, nil
}

func (p *Process) Close() error {
	return windows.CloseHandle(p.handle)
}

// ModuleByName returns the loaded module with the given filename.
// Matching ignores case, as module filenames on Windows do.
func (p *Process) ModuleByName(name string) (Module, error) {
	for _, m := range p.modules {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// ReadModule reads the module's full mapped image. Pages the OS refuses
// to read (guard pages, uncommitted regions) are left zeroed rather
// than failing the whole read.
func (p *Process) ReadModule(m Module) ([]byte, error) {
	if m.Size == 0 {
		return nil, fmt.Errorf("read module %s: empty image", m.Name)
	}
	data := make([]byte, m.Size)

	err := windows.ReadProcessMemory(p.handle, uintptr(m.Base), &data[0], uintptr(m.Size), nil)
	if err == nil {
		return data, nil
	}

	const pageSize = uintptr(4096)
	read := 0
	for off := uintptr(0); off < uintptr(m.Size); off += pageSize {
		n := pageSize
		if off+n > uintptr(m.Size) {
			n = uintptr(m.Size) - off
		}
		if windows.ReadProcessMemory(p.handle, uintptr(m.Base)+off, &data[off], n, nil) == nil {
			read++
		}
	}
	if read == 0 {
		return nil, fmt.Errorf("read module %s: %w", m.Name, err)
	}
	return data, nil
}

func enumModules(h windows.Handle, pid uint32) ([]Module, error) {
	var handles [1024]windows.Handle
	var needed uint32
	size := uint32(unsafe.Sizeof(handles[0]))
	if err := windows.EnumProcessModules(h, &handles[0], size*1024, &needed); err != nil {
		return nil, fmt.Errorf("enumerate modules of %d: %w", pid, err)
	}
	count := needed / size

	modules := make([]Module, 0, count)
	for i := uint32(0); i < count; i++ {
		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(h, handles[i], &info, uint32(unsafe.Sizeof(info))); err != nil {
			continue
		}
		var name [windows.MAX_PATH]uint16
		if err := windows.GetModuleFileNameEx(h, handles[i], &name[0], windows.MAX_PATH); err != nil {
			continue
		}
		modules = append(modules, Module{
			Name: filepath.Base(syscall.UTF16ToString(name[:])),
			Base: uint64(info.BaseOfDll),
			Size: info.SizeOfImage,
		})
	}
	return modules, nil
}
