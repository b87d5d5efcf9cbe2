package metrics

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/arena-core/internal/logging"
)

// ProcessStats - показатели процесса
type ProcessStats struct {
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	Goroutines int     `json:"goroutines"`
	Uptime     string  `json:"uptime"`
}

// ProcessSampler периодически снимает показатели процесса через gopsutil
type ProcessSampler struct {
	proc      *process.Process
	startTime time.Time
	sim       *Sim
	log       *logging.Logger
}

// NewProcessSampler создаёт сэмплер для текущего процесса
func NewProcessSampler(sim *Sim) (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("gopsutil: %w", err)
	}
	return &ProcessSampler{
		proc:      proc,
		startTime: time.Now(),
		sim:       sim,
		log:       logging.GetComponentLogger("metrics"),
	}, nil
}

// Sample снимает показатели и обновляет метрики
func (ps *ProcessSampler) Sample() (ProcessStats, error) {
	stats := ProcessStats{
		Goroutines: runtime.NumGoroutine(),
		Uptime:     FormatUptime(time.Since(ps.startTime)),
	}

	cpuPercent, err := ps.proc.CPUPercent()
	if err != nil {
		return stats, fmt.Errorf("cpu: %w", err)
	}
	stats.CPUPercent = cpuPercent

	mem, err := ps.proc.MemoryInfo()
	if err != nil {
		return stats, fmt.Errorf("memory: %w", err)
	}
	stats.RSSBytes = mem.RSS

	ps.sim.SetProcess(stats.CPUPercent, stats.RSSBytes)
	return stats, nil
}

// Run снимает показатели с периодом interval до отмены контекста
func (ps *ProcessSampler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := ps.Sample(); err != nil {
				ps.log.Warn("process sample failed: %v", err)
			}
		}
	}
}

// FormatUptime форматирует время работы: "1д 2ч 3м 4с", старшие нулевые разряды опускаются
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}
