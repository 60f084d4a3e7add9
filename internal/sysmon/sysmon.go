// Package sysmon samples host resource usage reported by the HTTP health
// endpoint.
package sysmon

import (
	"math"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64 `json:"cpuPercent"` // 0.0 .. 100.0, system-wide
	MemPercent float64 `json:"memPercent"` // 0.0 .. 100.0, system-wide
	Goroutines int     `json:"goroutines"` // this process
}

// Sampler produces a Stats snapshot. Sample is the production sampler.
type Sampler func() Stats

// Sample collects a single CPU, memory and goroutine snapshot.
// CPU uses interval=0 (delta since last call). Host values are zero when
// they cannot be read.
func Sample() Stats {
	s := Stats{Goroutines: runtime.NumGoroutine()}
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = clampPercent(cpuPcts[0])
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	return s
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
