package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Discord rejects messages longer than this many characters.
const maxMessageLength = 2000

const dmFallbackNotice = "⚠️ Não consegui te enviar uma mensagem direta, respondendo por aqui:"

type sender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChunkMessage splits content into rune-safe chunks of at most size
// characters, preserving order.
func ChunkMessage(content string, size int) []string {
	if size <= 0 {
		return nil
	}

	runes := []rune(content)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// Deliverer sends replies DM-first, falling back to the originating channel
// when direct messages are closed. Long replies are chunked and each chunk
// follows the same fallback policy independently.
type Deliverer struct {
	session sender
	logger  *zap.Logger
}

func NewDeliverer(session sender, logger *zap.Logger) *Deliverer {
	return &Deliverer{
		session: session,
		logger:  logger,
	}
}

// Reply delivers content to the author, preferring a DM and falling back to
// the origin channel with a notice.
func (d *Deliverer) Reply(authorID, originChannelID, content string) {
	chunks := ChunkMessage(content, maxMessageLength)
	noticeSent := false

	var dmChannelID string
	if dm, err := d.session.UserChannelCreate(authorID); err == nil {
		dmChannelID = dm.ID
	} else {
		d.logger.Warn("Could not open DM channel",
			zap.String("author_id", authorID),
			zap.Error(err),
		)
	}

	for _, chunk := range chunks {
		if dmChannelID != "" {
			if _, err := d.session.ChannelMessageSend(dmChannelID, chunk); err == nil {
				continue
			} else {
				d.logger.Warn("DM delivery failed, falling back to channel",
					zap.String("author_id", authorID),
					zap.Error(err),
				)
			}
		}

		if !noticeSent {
			if _, err := d.session.ChannelMessageSend(originChannelID, dmFallbackNotice); err != nil {
				d.logger.Error("Fallback notice delivery failed",
					zap.String("channel_id", originChannelID),
					zap.Error(err),
				)
			}
			noticeSent = true
		}

		if _, err := d.session.ChannelMessageSend(originChannelID, chunk); err != nil {
			d.logger.Error("Fallback delivery failed",
				zap.String("channel_id", originChannelID),
				zap.Error(err),
			)
		}
	}
}
