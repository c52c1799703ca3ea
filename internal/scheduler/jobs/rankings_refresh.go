package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockai/dashboard/internal/contracts"
)

// RankingsRefreshName is the registered job name
const RankingsRefreshName = "rankings_refresh"

// RankingsRefresher is the part of the dashboard service this job drives
type RankingsRefresher interface {
	RefreshRankings(ctx context.Context) ([]contracts.StockRanking, error)
}

// RankingsRefreshJob re-fetches the trading-value ranking on a fixed interval.
// Runs are not mutually exclusive with manual refreshes.
type RankingsRefreshJob struct {
	refresher RankingsRefresher
	interval  time.Duration
}

// NewRankingsRefreshJob creates a new rankings refresh job
func NewRankingsRefreshJob(refresher RankingsRefresher, interval time.Duration) *RankingsRefreshJob {
	return &RankingsRefreshJob{
		refresher: refresher,
		interval:  interval,
	}
}

// Name returns the job name
func (j *RankingsRefreshJob) Name() string {
	return RankingsRefreshName
}

// Schedule returns the cron schedule (fixed interval, 60s by default)
func (j *RankingsRefreshJob) Schedule() string {
	return fmt.Sprintf("@every %s", j.interval)
}

// Run refreshes rankings once
func (j *RankingsRefreshJob) Run(ctx context.Context) error {
	if _, err := j.refresher.RefreshRankings(ctx); err != nil {
		return fmt.Errorf("refresh rankings: %w", err)
	}
	return nil
}
