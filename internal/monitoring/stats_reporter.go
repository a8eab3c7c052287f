package monitoring

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"
)

// StatsReporter periodically logs catalog and store health figures and runs
// a WAL checkpoint so the sidecar files don't grow without bound.
type StatsReporter struct {
	db     *sql.DB
	dbPath string
	cron   *cron.Cron
}

// NewStatsReporter creates a new StatsReporter for the given database.
func NewStatsReporter(db *sql.DB, dbPath string) *StatsReporter {
	return &StatsReporter{
		db:     db,
		dbPath: dbPath,
		cron:   cron.New(),
	}
}

// Start registers the report job on the given cron schedule and runs it once
// immediately.
func (s *StatsReporter) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.report); err != nil {
		return err
	}
	go s.report()
	s.cron.Start()
	log.Info().Str("schedule", schedule).Msg("Stats reporter started")
	return nil
}

// Stop halts the reporter and waits for a running job to finish.
func (s *StatsReporter) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Stats reporter stopped")
}

func (s *StatsReporter) report() {
	var users, products int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		log.Error().Err(err).Msg("Stats: failed to count users")
		return
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&products); err != nil {
		log.Error().Err(err).Msg("Stats: failed to count products")
		return
	}

	event := log.Info().
		Int64("users", users).
		Int64("products", products)

	if info, err := os.Stat(s.dbPath); err == nil {
		event = event.Int64("db_bytes", info.Size())
	}

	// Process RSS and free space on the partition holding the database.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			event = event.Uint64("rss_bytes", mem.RSS)
		}
	}
	if dir, err := filepath.Abs(filepath.Dir(s.dbPath)); err == nil {
		if usage, err := disk.Usage(dir); err == nil {
			event = event.Uint64("disk_free_bytes", usage.Free)
		}
	}

	event.Msg("Catalog stats")

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		log.Warn().Err(err).Msg("Stats: wal_checkpoint failed")
	}
}
