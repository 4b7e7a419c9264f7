package plan

import (
	"fmt"
	"strings"

	"github.com/nickmtn/planbot/internal/db"
)

// BuildPrompt assembles the generation request for one user's day from
// their active goals and the texts of yesterday's unfinished tasks.
// Deterministic given identical inputs; callers skip generation entirely
// when both lists are empty.
func BuildPrompt(goals []db.Goal, carryOver []string) string {
	var b strings.Builder

	if len(goals) > 0 {
		b.WriteString("My current goals:\n")
		for _, g := range goals {
			b.WriteString("- " + g.Description)
			if g.Deadline != "" {
				fmt.Fprintf(&b, " (deadline: %s)", g.Deadline)
			}
			b.WriteString("\n")
		}
	}

	if len(carryOver) > 0 {
		b.WriteString("\nI did not finish these tasks yesterday. Put them at the top of today's list:\n")
		for _, t := range carryOver {
			b.WriteString("- " + t + "\n")
		}
	}

	b.WriteString("\nGive me today's plan: exactly one small, actionable task per goal. " +
		"Format it as a strictly numbered list (\"1. \", \"2. \", ...) with no bold on the numbers, " +
		"and finish with one short motivational line.")

	return b.String()
}
