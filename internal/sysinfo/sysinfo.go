// Package sysinfo reads host resource usage through gopsutil.
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const gib = 1 << 30

// Usage is a used/total pair in GiB with the used percentage.
type Usage struct {
	Percent float64
	UsedGB  float64
	TotalGB float64
}

// Process is one entry of the process listing.
type Process struct {
	PID           int32
	Name          string
	CPUPercent    float64
	MemoryPercent float64
}

// Host reads statistics of the local machine.
type Host struct {
	// CPUSample is the measurement window for CPU usage.
	CPUSample time.Duration
	// DiskPath is the mount point reported by Disk.
	DiskPath string
}

// New returns a Host that samples CPU for one second and reports the root disk.
func New() *Host {
	path := "/"
	if runtime.GOOS == "windows" {
		path = `C:\`
	}
	return &Host{CPUSample: time.Second, DiskPath: path}
}

// CPUPercent returns total CPU usage over the sample window.
func (h *Host) CPUPercent(ctx context.Context) (float64, error) {
	values, err := cpu.PercentWithContext(ctx, h.CPUSample, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("cpu percent: no samples")
	}
	return values[0], nil
}

// Memory returns virtual memory usage.
func (h *Host) Memory(ctx context.Context) (Usage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("virtual memory: %w", err)
	}
	return Usage{
		Percent: vm.UsedPercent,
		UsedGB:  float64(vm.Used) / gib,
		TotalGB: float64(vm.Total) / gib,
	}, nil
}

// Disk returns usage of the configured mount point.
func (h *Host) Disk(ctx context.Context) (Usage, error) {
	du, err := disk.UsageWithContext(ctx, h.DiskPath)
	if err != nil {
		return Usage{}, fmt.Errorf("disk usage %s: %w", h.DiskPath, err)
	}
	return Usage{
		Percent: du.UsedPercent,
		UsedGB:  float64(du.Used) / gib,
		TotalGB: float64(du.Total) / gib,
	}, nil
}

// Uptime returns the time since boot.
func (h *Host) Uptime(ctx context.Context) (time.Duration, error) {
	seconds, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("uptime: %w", err)
	}
	return time.Duration(seconds) * time.Second, nil
}

// CPUCount returns the number of logical cores.
func (h *Host) CPUCount(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("cpu count: %w", err)
	}
	return n, nil
}

// TopProcesses returns the n processes with the highest CPU usage.
// Processes that vanish or deny access while being read are skipped.
func (h *Host) TopProcesses(ctx context.Context, n int) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		out = append(out, Process{PID: p.Pid, Name: name, CPUPercent: cpuPct, MemoryPercent: float64(memPct)})
	}

	return Top(out, n), nil
}

// Top sorts procs by CPU usage, highest first, and keeps the first n.
func Top(procs []Process, n int) []Process {
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].CPUPercent > procs[j].CPUPercent
	})
	if len(procs) > n {
		procs = procs[:n]
	}
	return procs
}
