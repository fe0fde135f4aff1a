package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"bloxtalent-waitlist/internal/services"
)

// StatsSnapshotJob periodically persists a rollup of the waitlist so the
// admin dashboard has history to plot.
type StatsSnapshotJob struct {
	db      *gorm.DB
	service *services.StatsService
}

func NewStatsSnapshotJob(db *gorm.DB, service *services.StatsService) *StatsSnapshotJob {
	return &StatsSnapshotJob{
		db:      db,
		service: service,
	}
}

// Start begins the periodic snapshot job
func (j *StatsSnapshotJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		if err := j.snapshot(); err != nil {
			log.Printf("Initial stats snapshot error: %v", err)
		}

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := j.snapshot(); err != nil {
				log.Printf("Stats snapshot error: %v", err)
			}
		}
	}()
}

func (j *StatsSnapshotJob) snapshot() error {
	stats, err := j.service.Snapshot()
	if err != nil {
		return err
	}

	log.Printf("Stats snapshot: %d signups (%d vip), %d referrals, %d missions",
		stats.TotalSignups, stats.VIPSignups, stats.TotalReferrals, stats.MissionsCompleted)
	return nil
}
