package util

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
)

// SystemInfo contains information about the host system.
type SystemInfo struct {
	Hostname string
	NumCPU   int
	OS       string
	Arch     string
}

// GetSystemInfo collects system information.
func GetSystemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		Hostname: hostname,
		NumCPU:   runtime.NumCPU(),
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
}

// PhysicalCores returns the number of physical CPU cores.
// Falls back to half the logical count if detection fails.
func PhysicalCores() int {
	if count, err := cpu.Counts(false); err == nil && count > 0 {
		return count
	}

	logical := runtime.NumCPU()
	if logical > 1 {
		return logical / 2
	}
	return 1
}

// DefaultWorkers returns a sensible default for the frame worker pool:
// the physical core count capped at limit. Returns at least 1.
func DefaultWorkers(limit int) int {
	workers := PhysicalCores()
	if limit > 0 && workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
