package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/avelis/estate-be/internal/database"
)

const pingTimeout = 5 * time.Second

// HealthChecker periodically verifies the document-store connection. On a
// failed ping it resets the connector so requests observe a clean
// disconnected state until a reconnect succeeds, instead of hanging on a
// dead handle.
type HealthChecker struct {
	db       *database.Database
	schedule cron.Schedule
	ticker   *time.Ticker
	done     chan bool
	nextRun  time.Time
}

// NewHealthChecker creates a checker driven by a standard cron expression.
func NewHealthChecker(db *database.Database, cronExpr string) (*HealthChecker, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &HealthChecker{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the checker's ticking loop.
func (hc *HealthChecker) Run() {
	log.Info().Msg("Starting background database health checker...")
	hc.ticker = time.NewTicker(15 * time.Second)
	defer hc.ticker.Stop()

	// Run once immediately on start
	hc.check()
	hc.nextRun = hc.schedule.Next(time.Now())

	for {
		select {
		case <-hc.done:
			log.Info().Msg("Stopping background database health checker.")
			return
		case <-hc.ticker.C:
			now := time.Now()
			if now.After(hc.nextRun) {
				hc.check()
				hc.nextRun = hc.schedule.Next(now)
			}
		}
	}
}

// Stop halts the checker.
func (hc *HealthChecker) Stop() {
	hc.done <- true
}

// check pings the store when connected. Disconnected states are left for
// the lazy-connect path to repair on the next request.
func (hc *HealthChecker) check() {
	if hc.db.Status() != database.Connected {
		log.Debug().Stringer("status", hc.db.Status()).Msg("Health check skipped, store not connected")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := hc.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Database ping failed, resetting connection")
		hc.db.Reset(context.Background())
	}
}
