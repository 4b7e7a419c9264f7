package plan

import (
	"fmt"

	"github.com/nickmtn/planbot/internal/db"
)

// ToggleResult carries what the transport needs to edit the plan message
// in place after a toggle.
type ToggleResult struct {
	Text  string
	Tasks []db.Task
}

// ToggleTask flips the completion flag of the task with the given
// ordinal on the clicking user's current-day record and persists the
// full task list back. A nil result with nil error means the click was
// stale (unknown user, no record today, or ordinal not present) and
// nothing changed; stale clicks are silent no-ops. Two clicks restore
// the original flag: this is a toggle, not a one-way complete.
func (p *Planner) ToggleTask(chatID string, ordinal int) (*ToggleResult, error) {
	user, err := p.db.GetUserByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	today := p.Today()
	act, err := p.db.GetActivity(user.ID, today)
	if err != nil {
		return nil, fmt.Errorf("reading today's plan: %w", err)
	}
	if act == nil {
		return nil, nil // stale button from a previous day
	}

	idx := -1
	for i, t := range act.Tasks {
		if t.ID == ordinal {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}

	act.Tasks[idx].Done = !act.Tasks[idx].Done
	if err := p.db.UpdateActivityTasks(user.ID, today, act.Tasks); err != nil {
		return nil, fmt.Errorf("storing toggled tasks: %w", err)
	}

	return &ToggleResult{
		Text:  RenderChecklist(act.Content, act.Tasks),
		Tasks: act.Tasks,
	}, nil
}
