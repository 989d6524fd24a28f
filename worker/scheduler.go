package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iabalyuk/dailytracker/localtime"
	"github.com/iabalyuk/dailytracker/storage"
)

// ReminderText is the notification body
const ReminderText = "⏰ Time to rate your daily parameters!"

const (
	DefaultInterval  = 30 * time.Second
	DefaultTolerance = 60 * time.Second
)

// Notifier delivers a message to a user
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

// ReminderSource lists the users the scheduler has to look at
type ReminderSource interface {
	ListUsersWithReminders(ctx context.Context) ([]storage.UserReminders, error)
}

// DeliveryError is a failed reminder send
type DeliveryError struct {
	UserID int64
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("reminder delivery to user %d failed: %v", e.UserID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Scheduler wakes on a fixed interval and sends every reminder that is due
// and not yet sent for the user's current local day
type Scheduler struct {
	source    ReminderSource
	log       DispatchLog
	notifier  Notifier
	interval  time.Duration
	tolerance time.Duration
	now       func() time.Time
	debug     bool

	stopCh       chan struct{}
	wg           sync.WaitGroup
	isRunning    bool
	runningMutex sync.Mutex
}

// SchedulerConfig represents the configuration for the scheduler
type SchedulerConfig struct {
	Source    ReminderSource
	Log       DispatchLog // defaults to a process-local log
	Notifier  Notifier
	Interval  time.Duration
	Tolerance time.Duration
	Now       func() time.Time
	Debug     bool
}

// NewScheduler creates a scheduler. Tolerance must be at least the interval
// so a due reminder cannot fall between two ticks; an unset tolerance
// defaults to the larger of DefaultTolerance and the interval.
func NewScheduler(config SchedulerConfig) (*Scheduler, error) {
	interval := config.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	tolerance := config.Tolerance
	if tolerance <= 0 {
		tolerance = max(DefaultTolerance, interval)
	}
	if tolerance < interval {
		return nil, fmt.Errorf("tolerance %s is shorter than tick interval %s", tolerance, interval)
	}
	if tolerance >= 12*time.Hour {
		return nil, fmt.Errorf("tolerance %s must be under 12h", tolerance)
	}
	if config.Source == nil || config.Notifier == nil {
		return nil, fmt.Errorf("scheduler needs a reminder source and a notifier")
	}

	dispatchLog := config.Log
	if dispatchLog == nil {
		dispatchLog = NewMemoryDispatchLog()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		source:    config.Source,
		log:       dispatchLog,
		notifier:  config.Notifier,
		interval:  interval,
		tolerance: tolerance,
		now:       now,
		debug:     config.Debug,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start starts the tick loop. The first tick runs immediately.
func (w *Scheduler) Start(ctx context.Context) {
	w.runningMutex.Lock()
	defer w.runningMutex.Unlock()

	if w.isRunning {
		return
	}
	w.isRunning = true
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop stops the loop and waits for the tick in progress
func (w *Scheduler) Stop() {
	w.runningMutex.Lock()
	if !w.isRunning {
		w.runningMutex.Unlock()
		return
	}
	log.Println("Stopping reminder scheduler...")
	close(w.stopCh)
	w.isRunning = false
	w.runningMutex.Unlock()

	w.wg.Wait()
	log.Println("Reminder scheduler stopped.")
}

func (w *Scheduler) run(ctx context.Context) {
	defer w.wg.Done()
	log.Printf("Scheduler: started (interval %s, tolerance %s)", w.interval, w.tolerance)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Tick(ctx, w.now())
	for {
		select {
		case <-ticker.C:
			w.Tick(ctx, w.now())
		case <-w.stopCh:
			return
		case <-ctx.Done():
			log.Printf("Scheduler: context done: %v", ctx.Err())
			return
		}
	}
}

// Tick evaluates every user with reminders at instant now and returns the
// number of reminders delivered. Users are evaluated concurrently; a failure
// for one user never affects the others.
func (w *Scheduler) Tick(ctx context.Context, now time.Time) int {
	users, err := w.source.ListUsersWithReminders(ctx)
	if err != nil {
		log.Printf("Scheduler: failed to list users with reminders: %v", err)
		return 0
	}
	if w.debug {
		log.Printf("[Trace Scheduler] tick at %s: %d users", now.UTC().Format(time.RFC3339), len(users))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for _, u := range users {
		wg.Add(1)
		go func(u storage.UserReminders) {
			defer wg.Done()
			n := w.evaluate(ctx, u, now)
			mu.Lock()
			sent += n
			mu.Unlock()
		}(u)
	}
	wg.Wait()
	return sent
}

func (w *Scheduler) evaluate(ctx context.Context, u storage.UserReminders, now time.Time) int {
	loc := localtime.Location(u.Timezone)
	local := now.In(loc)
	day := local.Format(localtime.DayLayout)

	sent := 0
	for _, reminder := range u.Times {
		hour, minute, err := localtime.ParseClock(reminder)
		if err != nil {
			log.Printf("Scheduler: user %d has malformed reminder %q: %v", u.UserID, reminder, err)
			continue
		}
		if !w.due(local, hour, minute) {
			continue
		}

		last, err := w.log.LastSent(ctx, u.UserID, reminder)
		if err != nil {
			log.Printf("Scheduler: failed to read dispatch record for user %d at %s: %v", u.UserID, reminder, err)
			continue
		}
		if last == day {
			if w.debug {
				log.Printf("[Trace Scheduler] user %d: %s already sent on %s", u.UserID, reminder, day)
			}
			continue
		}

		// Record only after a successful send so a failure is retried next tick
		if err := w.notifier.Send(ctx, u.UserID, ReminderText); err != nil {
			log.Printf("Scheduler: %v", &DeliveryError{UserID: u.UserID, Err: err})
			continue
		}
		if err := w.log.MarkSent(ctx, u.UserID, reminder, day); err != nil {
			log.Printf("Scheduler: failed to record dispatch for user %d at %s: %v", u.UserID, reminder, err)
		}
		log.Printf("Scheduler: sent %s reminder to user %d (%s, %s)", reminder, u.UserID, u.Timezone, day)
		sent++
	}
	return sent
}

// due reports whether local is within the tolerance window of hour:minute on its own day
func (w *Scheduler) due(local time.Time, hour, minute int) bool {
	diff := local.Sub(localtime.At(local, hour, minute))
	if diff < 0 {
		diff = -diff
	}
	return diff < w.tolerance
}
