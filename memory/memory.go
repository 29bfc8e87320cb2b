// Package memory locates a running target process and reads the mapped
// images of its loaded modules.
package memory

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// ErrProcessNotFound is returned when no running process matches the
// requested name.
var ErrProcessNotFound = errors.New("process not found")

// ErrModuleNotFound is returned when the target process has no loaded
// module with the requested name. Resolution treats this as fatal: a
// missing module means the wrong target entirely.
var ErrModuleNotFound = errors.New("module not found")

// Module describes one loaded module of the target process.
type Module struct {
	Name string
	Base uint64
	Size uint32
}

// findPID returns the pid of the first running process whose name
// matches exactly.
func findPID(name string) (int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("enumerate processes: %w", err)
	}
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if n == name {
			return p.Pid, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
}
