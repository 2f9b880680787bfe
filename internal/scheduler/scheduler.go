package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-report-agent/internal/report"
)

// Runner executes one report generation.
type Runner interface {
	Run(ctx context.Context, trigger report.Trigger) (*report.Report, error)
}

// Scheduler fires the report pipeline once a day at a fixed wall-clock time.
// It does not sleep until the fire time: a gocron job polls every interval
// and runs the pipeline when the due time has passed, so a run may start up
// to one poll interval late. Days missed while the process was down are not
// caught up.
type Scheduler struct {
	cron     *gocron.Scheduler
	runner   Runner
	hour     int
	minute   int
	interval time.Duration
	loc      *time.Location
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

// New creates a new Scheduler firing at at ("HH:MM") in loc, polling every interval.
func New(at string, interval time.Duration, loc *time.Location, runner Runner) (*Scheduler, error) {
	hour, minute, err := ParseClock(at)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if loc == nil {
		loc = time.Local
	}

	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		cron:     s,
		runner:   runner,
		hour:     hour,
		minute:   minute,
		interval: interval,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// ParseClock parses a 24h "HH:MM" wall-clock time.
func ParseClock(at string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Start registers the polling job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.next = s.nextAfter(s.now())
	next := s.next
	s.mu.Unlock()

	_, err := s.cron.Every(s.interval).Do(func() {
		s.poll(s.now())
	})
	if err != nil {
		return err
	}

	s.cron.StartAsync()
	log.Printf("INFO: scheduler: daily report scheduled at %02d:%02d, next run %s (poll every %s)",
		s.hour, s.minute, next.Format(time.RFC3339), s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Next returns the time the next run is due.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// poll runs the pipeline if the due time has passed. The next due time is
// always the first fire time strictly after now, so a late or long poll
// never fires twice for the same day.
func (s *Scheduler) poll(now time.Time) bool {
	s.mu.Lock()
	if now.Before(s.next) {
		s.mu.Unlock()
		return false
	}
	due := s.next
	s.next = s.nextAfter(now)
	s.mu.Unlock()

	log.Printf("INFO: scheduler: running daily report (due %s)", due.Format(time.RFC3339))
	if _, err := s.runner.Run(context.Background(), report.TriggerSchedule); err != nil {
		log.Printf("ERROR: scheduler: daily report failed: %v", err)
		return true
	}
	log.Println("INFO: scheduler: daily report completed")
	return true
}

// nextAfter returns the first fire instant strictly after t.
func (s *Scheduler) nextAfter(t time.Time) time.Time {
	t = t.In(s.loc)
	fire := time.Date(t.Year(), t.Month(), t.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !fire.After(t) {
		fire = time.Date(t.Year(), t.Month(), t.Day()+1, s.hour, s.minute, 0, 0, s.loc)
	}
	return fire
}
