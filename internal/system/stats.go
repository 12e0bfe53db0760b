package system

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of this process and host memory.
type Stats struct {
	ProcessRSS      uint64  `yaml:"process_rss"`
	ProcessVMS      uint64  `yaml:"process_vms"`
	HostTotal       uint64  `yaml:"host_total"`
	HostAvailable   uint64  `yaml:"host_available"`
	HostUsedPercent float64 `yaml:"host_used_percent"`
}

func CollectStats(ctx context.Context) (Stats, error) {
	var s Stats

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("failed to inspect process: %w", err)
	}
	info, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to read process memory: %w", err)
	}
	s.ProcessRSS = info.RSS
	s.ProcessVMS = info.VMS

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("failed to read host memory: %w", err)
	}
	s.HostTotal = vm.Total
	s.HostAvailable = vm.Available
	s.HostUsedPercent = vm.UsedPercent
	return s, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("rss %s, host %s free of %s (%.1f%% used)",
		humanBytes(s.ProcessRSS), humanBytes(s.HostAvailable), humanBytes(s.HostTotal), s.HostUsedPercent)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
