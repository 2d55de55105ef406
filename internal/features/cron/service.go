package cron_feature

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task runs once per tick and returns how many items it acted on.
type Task func(now time.Time) int

type CronService interface {
	RegisterJob(name, schedule string, task Task) error
	RunJob(name string) (*Job, error)
	ListJobs() []Job
	InitializeScheduler() error
	StopScheduler() error
}

type registered struct {
	job     Job
	task    Task
	entryID cron.EntryID
}

type CronServiceImpl struct {
	mu        sync.Mutex
	scheduler *cron.Cron
	jobs      map[string]*registered
	logger    *zap.Logger
	clock     func() time.Time
}

func NewCronService(logger *zap.Logger) CronService {
	return &CronServiceImpl{
		scheduler: cron.New(),
		jobs:      make(map[string]*registered),
		logger:    logger,
		clock:     time.Now,
	}
}

func (s *CronServiceImpl) RegisterJob(name, schedule string, task Task) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	reg := &registered{job: Job{Name: name, Schedule: schedule}, task: task}
	entryID, err := s.scheduler.AddFunc(schedule, func() { s.run(name) })
	if err != nil {
		return fmt.Errorf("failed to add job to scheduler: %w", err)
	}
	reg.entryID = entryID
	s.jobs[name] = reg
	return nil
}

// RunJob runs a registered job immediately, outside its schedule.
func (s *CronServiceImpl) RunJob(name string) (*Job, error) {
	s.mu.Lock()
	_, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("job %s not found", name)
	}

	s.run(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.snapshot(s.jobs[name])
	return &job, nil
}

func (s *CronServiceImpl) run(name string) {
	s.mu.Lock()
	reg, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return
	}

	now := s.clock()
	count := reg.task(now)

	s.mu.Lock()
	reg.job.LastRun = &now
	reg.job.Runs++
	reg.job.LastCount = count
	s.mu.Unlock()

	s.logger.Debug("Cron job executed", zap.String("job", name), zap.Int("count", count))
}

func (s *CronServiceImpl) ListJobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.jobs))
	for _, reg := range s.jobs {
		out = append(out, s.snapshot(reg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *CronServiceImpl) snapshot(reg *registered) Job {
	job := reg.job
	if next := s.scheduler.Entry(reg.entryID).Next; !next.IsZero() {
		job.NextRun = &next
	}
	return job
}

func (s *CronServiceImpl) InitializeScheduler() error {
	s.logger.Info("Starting cron scheduler", zap.Int("jobs", len(s.ListJobs())))
	s.scheduler.Start()
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	return nil
}
