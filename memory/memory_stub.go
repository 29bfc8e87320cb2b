//go:build !windows && !linux

package memory

import "fmt"

// Process is a placeholder on platforms without a memory provider.
type Process struct{}

func Open(processName string) (*Process, error) {
	return nil, fmt.Errorf("process memory access is not supported on this platform")
}

func (p *Process) Close() error { return nil }

func (p *Process) ModuleByName(name string) (Module, error) {
	return Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

func (p *Process) ReadModule(m Module) ([]byte, error) {
	return nil, fmt.Errorf("process memory access is not supported on this platform")
}
