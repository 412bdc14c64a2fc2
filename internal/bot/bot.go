package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// NewSession builds the Discord gateway session with the intents the
// direct-message pipeline needs. The session is passed explicitly to every
// component that talks to Discord; lifecycle belongs to the composition
// root.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	return session, nil
}

// Bot wires the dispatcher and slash commands onto a gateway session.
type Bot struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	commands   *CommandHandler
	clientID   string
	logger     *zap.Logger
}

func New(session *discordgo.Session, clientID string, dispatcher *Dispatcher, commands *CommandHandler, logger *zap.Logger) *Bot {
	return &Bot{
		session:    session,
		dispatcher: dispatcher,
		commands:   commands,
		clientID:   clientID,
		logger:     logger,
	}
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	b.session.AddHandler(b.dispatcher.HandleMessageCreate)
	b.session.AddHandler(b.commands.HandleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	for _, cmd := range Definitions() {
		if _, err := b.session.ApplicationCommandCreate(b.clientID, "", cmd); err != nil {
			b.logger.Error("Failed to register command",
				zap.String("command", cmd.Name),
				zap.Error(err),
			)
		}
	}

	b.logger.Info("Discord bot connected")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}
