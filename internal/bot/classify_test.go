package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAudioWinsOverText(t *testing.T) {
	att := &discordgo.MessageAttachment{Filename: "nota.MP3"}

	kind, got := Classify("quanto gastei esse mês?", []*discordgo.MessageAttachment{att})

	assert.Equal(t, KindAudio, kind)
	assert.Same(t, att, got)
}

func TestClassifyNonAudioAttachmentFallsThrough(t *testing.T) {
	att := &discordgo.MessageAttachment{Filename: "recibo.pdf"}

	kind, got := Classify("segue o recibo", []*discordgo.MessageAttachment{att})

	assert.Equal(t, KindText, kind)
	assert.Nil(t, got)
}

func TestClassifyCommandPrefixes(t *testing.T) {
	for _, content := range []string{"/despesas", "!ajuda", "  /login  "} {
		kind, _ := Classify(content, nil)
		assert.Equal(t, KindCommand, kind, "content=%q", content)
	}
}

func TestClassifyPlainText(t *testing.T) {
	kind, _ := Classify("gastei 50 reais no mercado", nil)
	assert.Equal(t, KindText, kind)
}

func TestClassifyEmptyIsNoOp(t *testing.T) {
	kind, _ := Classify("   ", nil)
	assert.Equal(t, KindNone, kind)
}

func TestClassifyAudioExtensions(t *testing.T) {
	for _, name := range []string{"a.mp3", "a.wav", "a.ogg", "a.m4a", "a.aac", "a.opus", "a.webm"} {
		kind, _ := Classify("", []*discordgo.MessageAttachment{{Filename: name}})
		assert.Equal(t, KindAudio, kind, "filename=%q", name)
	}
}
