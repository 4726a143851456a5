// services/scheduler.go - Calendar-driven achievement batch runs
//
// Replaces the source system's unbounded cron loop with a ticker that
// detects UTC day/week/month rollovers and fans the matching event out
// over all users through a bounded worker pool. Users fail
// independently; one bad row never stops the batch.
package services

import (
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"fintrack/models"
	"fintrack/utils"
)

const batchWorkers = 4

// Scheduler drives DAY/WEEK/MONTH_COMPLETED batch evaluations.
type Scheduler struct {
	db       *gorm.DB
	resolver *Resolver

	lastDay time.Time
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
}

var scheduler *Scheduler

// InitScheduler initializes the singleton scheduler.
func InitScheduler(db *gorm.DB) {
	scheduler = NewScheduler(db)
}

// GetScheduler returns the initialized scheduler.
func GetScheduler() *Scheduler {
	return scheduler
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:       db,
		resolver: NewResolver(db),
		lastDay:  utils.StartOfDay(time.Now().UTC()),
		stop:     make(chan struct{}),
	}
}

// Start begins watching for day rollovers. Checking every minute is plenty:
// the only deadline is "some time shortly after midnight UTC".
func (s *Scheduler) Start() {
	s.ticker = time.NewTicker(time.Minute)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.stop:
				return
			case now := <-s.ticker.C:
				s.tick(now.UTC())
			}
		}
	}()
	log.Println("Achievement scheduler started")
}

// Stop halts the scheduler and waits for an in-flight batch to finish.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) tick(now time.Time) {
	day := utils.StartOfDay(now)
	if !day.After(s.lastDay) {
		return
	}
	s.lastDay = day

	// The completed periods are the ones ending at this midnight, so the
	// batch evaluates as of just before the rollover.
	asOf := day.Add(-time.Second)

	s.RunDaily(asOf)
	if day.Equal(utils.StartOfWeek(day)) {
		s.RunWeekly(asOf)
	}
	if day.Day() == 1 {
		s.RunMonthly(asOf)
	}
}

// RunDaily fires DAY_COMPLETED for every user as of the given time.
func (s *Scheduler) RunDaily(asOf time.Time) {
	s.runBatch(models.EventDayCompleted, asOf)
}

// RunWeekly fires WEEK_COMPLETED for every user as of the given time.
func (s *Scheduler) RunWeekly(asOf time.Time) {
	s.runBatch(models.EventWeekCompleted, asOf)
}

// RunMonthly fires MONTH_COMPLETED for every user as of the given time.
func (s *Scheduler) RunMonthly(asOf time.Time) {
	s.runBatch(models.EventMonthCompleted, asOf)
}

// runBatch fans the event out over all users with bounded concurrency.
// Per-user evaluation stays sequential inside CheckAchievements.
func (s *Scheduler) runBatch(tag models.EventTag, asOf time.Time) {
	var userIDs []uint
	if err := s.db.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
		log.Printf("scheduler: listing users for %s: %v", tag, err)
		return
	}

	resolver := NewResolver(s.db).WithClock(func() time.Time { return asOf })

	jobs := make(chan uint)
	var wg sync.WaitGroup
	for i := 0; i < batchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				resolver.CheckAchievements(userID, tag, EventData{})
			}
		}()
	}

	for _, id := range userIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	log.Printf("scheduler: %s batch finished for %d users", tag, len(userIDs))
}
