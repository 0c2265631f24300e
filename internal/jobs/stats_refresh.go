package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
	"github.com/pabloubeiracarramal/factor-back/internal/services"
)

// StatsRefresher keeps the per-company dashboard cache warm so reads stay
// fast even for companies with large invoice sets.
type StatsRefresher struct {
	scheduler   gocron.Scheduler
	companyRepo repositories.CompanyRepository
	dashboard   services.DashboardService
	interval    time.Duration
}

func NewStatsRefresher(companyRepo repositories.CompanyRepository, dashboard services.DashboardService, interval time.Duration) (*StatsRefresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &StatsRefresher{
		scheduler:   scheduler,
		companyRepo: companyRepo,
		dashboard:   dashboard,
		interval:    interval,
	}, nil
}

// Start registers the refresh job and runs the scheduler in the background.
func (r *StatsRefresher) Start() error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.refreshAll, context.Background()),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	r.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running refresh to finish.
func (r *StatsRefresher) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *StatsRefresher) refreshAll(ctx context.Context) {
	ids, err := r.companyRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("Stats refresh: failed to list companies: %v", err)
		return
	}
	for _, id := range ids {
		if _, err := r.dashboard.RefreshStats(ctx, id); err != nil {
			log.Printf("Stats refresh: company %s: %v", id, err)
		}
	}
}
