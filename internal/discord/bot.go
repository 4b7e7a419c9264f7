package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/nickmtn/planbot/internal/db"
	"github.com/nickmtn/planbot/internal/plan"
)

type Bot struct {
	session *discordgo.Session
	db      *db.DB
	planner *plan.Planner
	states  *stateMap
}

func NewBot(token string, database *db.DB, planner *plan.Planner) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, db: database, planner: planner, states: newStateMap()}
	s.AddHandler(bot.onMessage)
	s.AddHandler(bot.onInteraction)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Printf("Discord bot connected as %s", s.State.User.Username)
	return bot, nil
}

func (b *Bot) Close() {
	b.session.Close()
}

// SendText delivers a plain message to a user's DM channel.
func (b *Bot) SendText(chatID, text string) error {
	ch, err := b.session.UserChannelCreate(chatID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	if _, err := b.session.ChannelMessageSend(ch.ID, text); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// SendPlan delivers the plan text with its checklist button grid.
func (b *Bot) SendPlan(chatID, text string, tasks []db.Task) error {
	ch, err := b.session.UserChannelCreate(chatID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	_, err = b.session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content:    text,
		Components: taskGrid(tasks),
	})
	if err != nil {
		return fmt.Errorf("sending plan message: %w", err)
	}
	return nil
}
