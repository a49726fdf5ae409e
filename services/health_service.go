package services

import (
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type HealthService struct {
	logger    *gecho.Logger
	watcher   *WatcherService
	startedAt time.Time
}

func NewHealthService(logger *gecho.Logger, watcher *WatcherService) *HealthService {
	return &HealthService{
		logger:    logger,
		watcher:   watcher,
		startedAt: time.Now(),
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	return serverHealthStatus{
		Uptime:       time.Since(hs.startedAt).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
}

// GetWatcherHealthStatus never fails; a dead watcher is reported, not raised.
func (hs *HealthService) GetWatcherHealthStatus() WatcherStatus {
	status := hs.watcher.Status()
	if !status.Healthy() {
		hs.logger.Warn("Change feed watcher is not running", gecho.Field("state", status.State))
	}
	return status
}
