package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nickmtn/planbot/internal/db"
	"github.com/nickmtn/planbot/internal/plan"
	"github.com/robfig/cron/v3"
)

// Scheduler fires the daily plan generation and the reminder sweeps,
// all anchored to one fixed timezone regardless of host timezone.
type Scheduler struct {
	cron    *cron.Cron
	db      *db.DB
	planner *plan.Planner
	msgr    plan.Messenger
	delay   time.Duration // pause between users in a batch
}

func New(database *db.DB, planner *plan.Planner, msgr plan.Messenger, loc *time.Location, planHour int, reminderHours []int, delay time.Duration) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		db:      database,
		planner: planner,
		msgr:    msgr,
		delay:   delay,
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", planHour), s.runDailyPlans); err != nil {
		log.Printf("scheduler: registering daily plan job: %v", err)
	}
	for _, h := range reminderHours {
		if _, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", h), s.runReminders); err != nil {
			log.Printf("scheduler: registering reminder job at %d: %v", h, err)
		}
	}
	return s
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runDailyPlans generates a plan for every registered user, sequentially
// with a small pause between users so the provider's rate limits hold.
// RunForUser contains its own failures, so one user can't stop the batch.
func (s *Scheduler) runDailyPlans() {
	users, err := s.db.ListUsers()
	if err != nil {
		log.Printf("daily plans: listing users: %v", err)
		return
	}
	for i := range users {
		if i > 0 {
			time.Sleep(s.delay)
		}
		s.planner.RunForUser(context.Background(), &users[i], s.msgr)
	}
	log.Printf("daily plans: processed %d user(s)", len(users))
}

// runReminders nudges qualifying users: those with unfinished tasks on
// today's plan, or with goals but no plan yet. Individual send failures
// are logged and skipped.
func (s *Scheduler) runReminders() {
	users, err := s.db.ListUsers()
	if err != nil {
		log.Printf("reminders: listing users: %v", err)
		return
	}
	sent := 0
	for i := range users {
		u := &users[i]
		text, err := s.reminderFor(u)
		if err != nil {
			log.Printf("reminders[%s]: %v", u.ChatID, err)
			continue
		}
		if text == "" {
			continue
		}
		if sent > 0 {
			time.Sleep(s.delay)
		}
		if err := s.msgr.SendText(u.ChatID, text); err != nil {
			log.Printf("reminders[%s]: sending: %v", u.ChatID, err)
			continue
		}
		sent++
	}
	log.Printf("reminders: sent %d", sent)
}

func (s *Scheduler) reminderFor(u *db.User) (string, error) {
	today := s.planner.Today()
	act, err := s.db.GetActivity(u.ID, today)
	if err != nil {
		return "", fmt.Errorf("reading today's plan: %w", err)
	}
	if act != nil {
		open := 0
		for _, t := range act.Tasks {
			if !t.Done {
				open++
			}
		}
		if open == 0 {
			return "", nil
		}
		return fmt.Sprintf("You still have %d unfinished task(s) today. Keep going!", open), nil
	}

	goals, err := s.db.ListGoals(u.ID)
	if err != nil {
		return "", fmt.Errorf("reading goals: %w", err)
	}
	if len(goals) == 0 {
		return "", nil
	}
	return "No plan for today yet. Send /generate and I'll put one together.", nil
}
