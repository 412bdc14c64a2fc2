package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"despesabot/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	reactionProcessing = "⏳"
	reactionDone       = "✅"
	reactionFailed     = "❌"

	msgAudioNotUnderstood = "Não consegui entender o áudio. 😕 Pode tentar de novo ou mandar por texto?"
	msgPipelineFailed     = "Desculpe, algo deu errado ao processar sua mensagem. Tente novamente. 🙏"
)

type messageHandler interface {
	HandleIncoming(ctx context.Context, discordID, content string) string
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

type reactor interface {
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Dispatcher is the inbound direct-message pipeline: filter, classify,
// authenticate, invoke the agent, deliver the reply. No error or panic ever
// escapes to discordgo's event loop.
type Dispatcher struct {
	messages    messageHandler
	transcriber transcriber
	deliverer   *Deliverer
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewDispatcher(messages messageHandler, transcriber transcriber, deliverer *Deliverer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		messages:    messages,
		transcriber: transcriber,
		deliverer:   deliverer,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// HandleMessageCreate is registered as the discordgo MessageCreate handler.
func (d *Dispatcher) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Guild messages are ignored; slash commands have their own path.
	if m.GuildID != "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Message pipeline panic",
				zap.String("message_id", m.ID),
				zap.String("author_id", m.Author.ID),
				zap.Any("panic", r),
			)
			d.deliverer.Reply(m.Author.ID, m.ChannelID, msgPipelineFailed)
		}
	}()

	ctx := context.Background()

	kind, attachment := Classify(m.Content, m.Attachments)
	switch kind {
	case KindAudio:
		d.handleAudio(ctx, s, m, attachment)
	case KindText, KindCommand:
		reply := d.messages.HandleIncoming(ctx, m.Author.ID, strings.TrimSpace(m.Content))
		d.deliverer.Reply(m.Author.ID, m.ChannelID, reply)
	case KindNone:
	}
}

// handleAudio transcribes the attachment and routes the transcript through
// the text path, echoing the transcript back for confirmation. Fails closed
// when nothing could be transcribed.
func (d *Dispatcher) handleAudio(ctx context.Context, s reactor, m *discordgo.MessageCreate, attachment *discordgo.MessageAttachment) {
	d.react(s, m, reactionProcessing)

	audio, err := d.downloadAttachment(ctx, attachment.URL)
	if err != nil {
		d.logger.Error("Audio download failed",
			zap.String("message_id", m.ID),
			zap.String("author_id", m.Author.ID),
			zap.Error(err),
		)
		d.react(s, m, reactionFailed)
		d.deliverer.Reply(m.Author.ID, m.ChannelID, msgAudioNotUnderstood)
		return
	}

	transcript, err := d.transcriber.Transcribe(ctx, audio, attachmentContentType(attachment))
	if err != nil || strings.TrimSpace(transcript) == "" {
		if err != nil {
			d.logger.Error("Transcription failed",
				zap.String("message_id", m.ID),
				zap.String("author_id", m.Author.ID),
				zap.Error(err),
			)
		}
		d.react(s, m, reactionFailed)
		d.deliverer.Reply(m.Author.ID, m.ChannelID, msgAudioNotUnderstood)
		return
	}

	reply := d.messages.HandleIncoming(ctx, m.Author.ID, transcript)
	d.deliverer.Reply(m.Author.ID, m.ChannelID,
		fmt.Sprintf("🎤 Você disse: \"%s\"\n\n%s", transcript, reply))
	d.react(s, m, reactionDone)
}

func (d *Dispatcher) downloadAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (d *Dispatcher) react(s reactor, m *discordgo.MessageCreate, emoji string) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		d.logger.Debug("Reaction failed",
			zap.String("message_id", m.ID),
			zap.String("emoji", emoji),
			zap.Error(err),
		)
	}
}

func attachmentContentType(attachment *discordgo.MessageAttachment) string {
	if attachment.ContentType != "" {
		return attachment.ContentType
	}
	return service.ContentTypeForExtension(filepath.Ext(attachment.Filename))
}
