package discord

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/nickmtn/planbot/internal/db"
)

// Inline button identifiers. The task callback carries only the ordinal;
// the goal callback carries the goal's surrogate ID.
const (
	checkTaskPrefix  = "check_task_"
	deleteGoalPrefix = "delete_goal_"
)

const (
	uncheckedMark = "⬜"
	checkedMark   = "✅"
)

const helpText = `Commands:
/addgoal <text> — add a goal (I'll ask for a deadline)
/addmany — add several goals, one per line
/mygoals — list your goals
/delete <n> — delete goal number n
/clear — delete all goals
/generate — build today's plan now
/help — this message`

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Only respond to DMs or when mentioned
	isDM := m.GuildID == ""
	if !isDM && !mentionsUser(m.Mentions, s.State.User.ID) {
		return
	}

	content := strings.TrimSpace(stripMention(m.Content, s.State.User.ID))
	if content == "" {
		return
	}

	user, err := b.db.GetOrCreateUser(m.Author.ID, m.Author.Username)
	if err != nil {
		log.Printf("registering user %s: %v", m.Author.ID, err)
		b.reply(s, m.ChannelID, "Something went wrong. Try again?")
		return
	}

	if reply := b.dispatch(context.Background(), user, content); reply != "" {
		b.reply(s, m.ChannelID, reply)
	}
}

// dispatch routes one inbound text. A pending conversational state takes
// the message first; otherwise it is treated as a command. Returns the
// reply text, or "" when the handler already sent its own messages.
func (b *Bot) dispatch(ctx context.Context, user *db.User, content string) string {
	now := time.Now()

	switch p := b.states.get(user.ChatID, now); p.state {
	case stateAwaitingDeadline:
		b.states.clear(user.ChatID)
		deadline := content
		if deadline == "-" {
			deadline = ""
		}
		if _, err := b.db.CreateGoal(user.ID, p.draft, deadline, 0); err != nil {
			log.Printf("creating goal for %s: %v", user.ChatID, err)
			return "Couldn't save that goal. Try again?"
		}
		return fmt.Sprintf("Goal saved: %s", p.draft)

	case stateAwaitingGoals:
		b.states.clear(user.ChatID)
		added := 0
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if _, err := b.db.CreateGoal(user.ID, line, "", 0); err != nil {
				log.Printf("creating goal for %s: %v", user.ChatID, err)
				continue
			}
			added++
		}
		return fmt.Sprintf("Added %d goal(s). Use /mygoals to review them.", added)
	}

	cmd, arg := splitCommand(content)
	switch cmd {
	case "/start":
		return fmt.Sprintf("Hi %s! I turn your goals into a daily task plan.\n\n%s", user.Username, helpText)

	case "/help":
		return helpText

	case "/addgoal":
		if arg == "" {
			return "Usage: /addgoal <text>"
		}
		b.states.set(user.ChatID, stateAwaitingDeadline, arg, now)
		return "When is the deadline? Reply in any form, or \"-\" to skip."

	case "/addmany":
		b.states.set(user.ChatID, stateAwaitingGoals, "", now)
		return "Send your goals, one per line."

	case "/mygoals":
		b.sendGoalsList(user)
		return ""

	case "/delete":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return "Usage: /delete <number> (see /mygoals for the numbers)"
		}
		goal, err := b.db.DeleteGoalByPosition(user.ID, n)
		if err != nil {
			log.Printf("deleting goal %d for %s: %v", n, user.ChatID, err)
			return "Couldn't delete that goal. Try again?"
		}
		if goal == nil {
			return fmt.Sprintf("There is no goal number %d. See /mygoals.", n)
		}
		return fmt.Sprintf("Deleted: %s", goal.Description)

	case "/clear":
		removed, err := b.db.ClearGoals(user.ID)
		if err != nil {
			log.Printf("clearing goals for %s: %v", user.ChatID, err)
			return "Couldn't clear your goals. Try again?"
		}
		return fmt.Sprintf("Removed %d goal(s).", removed)

	case "/generate":
		b.planner.RunForUser(ctx, user, b)
		return ""

	default:
		return "I didn't catch that. Send /help for the command list."
	}
}

func (b *Bot) sendGoalsList(user *db.User) {
	goals, err := b.db.ListGoals(user.ID)
	if err != nil {
		log.Printf("listing goals for %s: %v", user.ChatID, err)
		_ = b.SendText(user.ChatID, "Couldn't load your goals. Try again?")
		return
	}
	if len(goals) == 0 {
		_ = b.SendText(user.ChatID, "No goals yet. Add one with /addgoal.")
		return
	}
	ch, err := b.session.UserChannelCreate(user.ChatID)
	if err != nil {
		log.Printf("opening DM for %s: %v", user.ChatID, err)
		return
	}
	_, err = b.session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content:    goalsListText(goals),
		Components: goalGrid(goals),
	})
	if err != nil {
		log.Printf("sending goals list to %s: %v", user.ChatID, err)
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	data := i.MessageComponentData()
	switch {
	case strings.HasPrefix(data.CustomID, checkTaskPrefix):
		b.handleTaskCheck(s, i, strings.TrimPrefix(data.CustomID, checkTaskPrefix))
	case strings.HasPrefix(data.CustomID, deleteGoalPrefix):
		b.handleGoalDelete(s, i, strings.TrimPrefix(data.CustomID, deleteGoalPrefix))
	default:
		b.ack(s, i)
	}
}

// handleTaskCheck flips one task's flag and edits the plan message in
// place, so repeated clicks toggle the same message. A stale or invalid
// control is acknowledged silently without any change.
func (b *Bot) handleTaskCheck(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) {
	ordinal, err := strconv.Atoi(raw)
	userID := interactionUserID(i)
	if err != nil || userID == "" {
		b.ack(s, i)
		return
	}

	res, err := b.planner.ToggleTask(userID, ordinal)
	if err != nil {
		log.Printf("toggling task %d for %s: %v", ordinal, userID, err)
		b.ack(s, i)
		return
	}
	if res == nil {
		b.ack(s, i)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    res.Text,
			Components: taskGrid(res.Tasks),
		},
	})
	if err != nil {
		log.Printf("editing plan message for %s: %v", userID, err)
	}
}

func (b *Bot) handleGoalDelete(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) {
	goalID, err := strconv.ParseInt(raw, 10, 64)
	userID := interactionUserID(i)
	if err != nil || userID == "" {
		b.ack(s, i)
		return
	}

	user, err := b.db.GetUserByChatID(userID)
	if err != nil || user == nil {
		b.ack(s, i)
		return
	}
	if err := b.db.DeleteGoal(user.ID, goalID); err != nil {
		// already gone: stale button
		b.ack(s, i)
		return
	}

	goals, err := b.db.ListGoals(user.ID)
	if err != nil {
		log.Printf("listing goals for %s: %v", userID, err)
		b.ack(s, i)
		return
	}
	content := goalsListText(goals)
	if len(goals) == 0 {
		content = "No goals left. Add one with /addgoal."
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: goalGrid(goals),
		},
	})
	if err != nil {
		log.Printf("editing goals message for %s: %v", userID, err)
	}
}

// ack acknowledges an interaction without touching the message. Skipping
// the response would show "interaction failed" to the user.
func (b *Bot) ack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (b *Bot) reply(s *discordgo.Session, channelID, text string) {
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		log.Printf("sending reply: %v", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func mentionsUser(mentions []*discordgo.User, userID string) bool {
	for _, u := range mentions {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	s = strings.ReplaceAll(s, "<@!"+userID+">", "")
	return s
}

// splitCommand separates "/delete 2" into "/delete" and "2".
func splitCommand(content string) (cmd, arg string) {
	parts := strings.SplitN(content, " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

func goalsListText(goals []db.Goal) string {
	var b strings.Builder
	b.WriteString("Your goals:\n")
	for i, g := range goals {
		fmt.Fprintf(&b, "%d. %s", i+1, g.Description)
		if g.Deadline != "" {
			fmt.Fprintf(&b, " (by %s)", g.Deadline)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nDelete one with the buttons below or /delete <n>.")
	return b.String()
}
