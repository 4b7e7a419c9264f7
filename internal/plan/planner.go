package plan

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nickmtn/planbot/internal/db"
	"github.com/nickmtn/planbot/internal/llm"
)

const dateFormat = "2006-01-02"

// User-facing texts for the generation pipeline.
const (
	planHeader  = "Here's your plan for today:"
	carryHeader = "Here's today's plan, starting with what was left from yesterday:"

	noGoalsMessage = "You have no active goals yet. Add one with /addgoal and I'll plan your day."
	retryNotice    = "Something went wrong while preparing your plan. Please try again later."
)

// Messenger is the outbound half of the chat transport: plain text, or a
// plan message carrying one control per task.
type Messenger interface {
	SendText(chatID, text string) error
	SendPlan(chatID, text string, tasks []db.Task) error
}

// Planner runs the daily pipeline: read yesterday's leftovers, build the
// prompt, call the generation provider, parse, persist, deliver.
type Planner struct {
	db  *db.DB
	llm llm.Client
	loc *time.Location // fixed zone anchoring the day boundary
}

func New(database *db.DB, client llm.Client, loc *time.Location) *Planner {
	return &Planner{db: database, llm: client, loc: loc}
}

// Today returns the current calendar date in the planner's fixed zone,
// independent of where the process runs.
func (p *Planner) Today() string {
	return time.Now().In(p.loc).Format(dateFormat)
}

// RunForUser produces and delivers one day's plan for one user. Failures
// are contained here: they are logged and surfaced to the user as a
// generic retry notice, so a scheduled batch never aborts on one user.
func (p *Planner) RunForUser(ctx context.Context, user *db.User, m Messenger) {
	if err := p.generate(ctx, user, m); err != nil {
		log.Printf("plan[%s]: %v", user.ChatID, err)
		if err := m.SendText(user.ChatID, retryNotice); err != nil {
			log.Printf("plan[%s]: sending retry notice: %v", user.ChatID, err)
		}
	}
}

func (p *Planner) generate(ctx context.Context, user *db.User, m Messenger) error {
	now := time.Now().In(p.loc)
	today := now.Format(dateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dateFormat)

	// Carry-over: texts of yesterday's unfinished tasks. Only the text
	// moves forward; the provider re-numbers them in today's list.
	prev, err := p.db.GetActivity(user.ID, yesterday)
	if err != nil {
		return fmt.Errorf("reading yesterday: %w", err)
	}
	var carryOver []string
	if prev != nil {
		for _, t := range prev.Tasks {
			if !t.Done {
				carryOver = append(carryOver, t.Text)
			}
		}
	}

	goals, err := p.db.ListGoals(user.ID)
	if err != nil {
		return fmt.Errorf("reading goals: %w", err)
	}

	// Nothing to plan from. Not an error path: explain and stop before
	// touching the provider or the store.
	if len(goals) == 0 && len(carryOver) == 0 {
		if err := m.SendText(user.ChatID, noGoalsMessage); err != nil {
			return fmt.Errorf("sending no-goals message: %w", err)
		}
		return nil
	}

	raw, err := p.llm.Generate(ctx, BuildPrompt(goals, carryOver))
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}

	tasks := ParseTasks(raw)

	// Upsert keyed by (user, today): a re-run replaces the day's record.
	if err := p.db.UpsertActivity(user.ID, today, raw, tasks); err != nil {
		return fmt.Errorf("storing plan: %w", err)
	}

	header := planHeader
	if len(carryOver) > 0 {
		header = carryHeader
	}
	if err := m.SendPlan(user.ChatID, header+"\n\n"+raw, tasks); err != nil {
		return fmt.Errorf("delivering plan: %w", err)
	}
	return nil
}
