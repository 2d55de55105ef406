package cron_feature

import "time"

// Job is a housekeeping task the server runs on a schedule.
type Job struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	Runs      int        `json:"runs"`
	LastCount int        `json:"last_count"` // What the last run reported, e.g. views evicted
}
