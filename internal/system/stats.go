package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is a snapshot of the current process for performance reports.
type ProcessStats struct {
	RSS        uint64  // bytes
	CPUPercent float64 // since process start
	SysUsedPct float64 // system-wide memory usage
}

func CurrentProcessStats() (ProcessStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}

	stats := ProcessStats{RSS: memInfo.RSS, CPUPercent: cpu}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.SysUsedPct = vm.UsedPercent
	}
	return stats, nil
}
