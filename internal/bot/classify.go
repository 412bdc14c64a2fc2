package bot

import (
	"path/filepath"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// MessageKind is the routing decision for one inbound direct message.
type MessageKind int

const (
	KindNone MessageKind = iota
	KindAudio
	KindCommand
	KindText
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".opus": true,
	".webm": true,
}

// Classify routes a message: an audio attachment wins over any text
// content, then command prefixes, then plain text. Empty messages are a
// no-op.
func Classify(content string, attachments []*discordgo.MessageAttachment) (MessageKind, *discordgo.MessageAttachment) {
	for _, att := range attachments {
		ext := strings.ToLower(filepath.Ext(att.Filename))
		if audioExtensions[ext] {
			return KindAudio, att
		}
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "!") {
		return KindCommand, nil
	}
	if trimmed != "" {
		return KindText, nil
	}

	return KindNone, nil
}
