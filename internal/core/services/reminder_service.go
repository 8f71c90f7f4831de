package services

import (
	"context"
	"log"
	"time"

	"lendtrack/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ReminderService logs overdue open distributions on a daily schedule so
// facilitators can chase returns. It only reads; overdue laptops stay
// Distributed until they are actually returned.
type ReminderService struct {
	store repositories.Store
	cron  *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(store repositories.Store) *ReminderService {
	return &ReminderService{
		store: store,
		cron:  cron.New(),
	}
}

// Start schedules the daily overdue check (08:30)
func (s *ReminderService) Start() {
	if _, err := s.cron.AddFunc("30 8 * * *", s.checkOverdue); err != nil {
		log.Printf("❌ Failed to schedule overdue check: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 ReminderService started (overdue check daily at 08:30)")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 ReminderService stopped")
}

func (s *ReminderService) checkOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := s.store.Distributions().ListOverdueOpen(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue check query error: %v", err)
		return
	}

	for _, dist := range overdue {
		days := int(time.Since(dist.ExpectedReturnDate).Hours() / 24)
		log.Printf("📅 Overdue return: distribution %d, laptop %d, recipient %s (%s), %d day(s) late",
			dist.ID, dist.LaptopID, dist.RecipientName, dist.RecipientEmail, days)
	}

	if len(overdue) > 0 {
		log.Printf("📅 %d distribution(s) overdue", len(overdue))
	}
}
