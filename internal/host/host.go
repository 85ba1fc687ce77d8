// Package host reads memory figures of the machine running the scheduler.
package host

import (
	"os"

	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
)

const megabyte = 1 << 20

// AvailableMemoryMB returns memory available to new processes in megabytes
func AvailableMemoryMB() (int, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return int(stat.Available / megabyte), nil
}

// ResidentMemoryMB returns the resident set size of the current process in megabytes
func ResidentMemoryMB() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / megabyte, nil
}
