package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/nickmtn/planbot/internal/db"
)

// Discord allows 5 buttons per action row and 5 rows per message.
const (
	buttonsPerRow = 5
	maxButtons    = 25
)

// taskGrid builds one control per task, 5 per row, labeled with the
// task's ordinal and its state marker. Duplicate ordinals from a sloppy
// generation are skipped here: Discord rejects duplicate custom IDs.
func taskGrid(tasks []db.Task) []discordgo.MessageComponent {
	seen := make(map[int]bool, len(tasks))
	var buttons []discordgo.MessageComponent
	for _, t := range tasks {
		if len(buttons) == maxButtons {
			break
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		mark := uncheckedMark
		if t.Done {
			mark = checkedMark
		}
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%d %s", t.ID, mark),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("%s%d", checkTaskPrefix, t.ID),
		})
	}
	return intoRows(buttons)
}

// goalGrid builds one delete button per listed goal, labeled with the
// goal's display number but carrying its stable ID.
func goalGrid(goals []db.Goal) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for i, g := range goals {
		if len(buttons) == maxButtons {
			break
		}
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("🗑 %d", i+1),
			Style:    discordgo.DangerButton,
			CustomID: fmt.Sprintf("%s%d", deleteGoalPrefix, g.ID),
		})
	}
	return intoRows(buttons)
}

func intoRows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := buttonsPerRow
		if n > len(buttons) {
			n = len(buttons)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return rows
}
