package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	channelID string
	content   string
}

type fakeSender struct {
	dmChannelID string
	dmOpenErr   error
	dmSendErr   error
	sent        []sentMessage
}

func (f *fakeSender) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.dmOpenErr != nil {
		return nil, f.dmOpenErr
	}
	return &discordgo.Channel{ID: f.dmChannelID}, nil
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if channelID == f.dmChannelID && f.dmSendErr != nil {
		return nil, f.dmSendErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return &discordgo.Message{}, nil
}

func TestChunkMessageRuneSafe(t *testing.T) {
	// Multibyte runes must never be split mid-sequence.
	content := strings.Repeat("ç", 5)

	chunks := ChunkMessage(content, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"çç", "çç", "ç"}, chunks)
}

func TestChunkMessagePreservesOrder(t *testing.T) {
	chunks := ChunkMessage("abcdef", 2)
	assert.Equal(t, []string{"ab", "cd", "ef"}, chunks)
}

func TestChunkMessageEmpty(t *testing.T) {
	assert.Nil(t, ChunkMessage("", 10))
	assert.Nil(t, ChunkMessage("abc", 0))
}

func TestReplyPrefersDM(t *testing.T) {
	s := &fakeSender{dmChannelID: "dm-1"}
	d := NewDeliverer(s, zap.NewNop())

	d.Reply("author-1", "origin-1", "olá")

	require.Len(t, s.sent, 1)
	assert.Equal(t, "dm-1", s.sent[0].channelID)
	assert.Equal(t, "olá", s.sent[0].content)
}

func TestReplyChunksLongContent(t *testing.T) {
	s := &fakeSender{dmChannelID: "dm-1"}
	d := NewDeliverer(s, zap.NewNop())

	content := strings.Repeat("a", maxMessageLength+10)
	d.Reply("author-1", "origin-1", content)

	require.Len(t, s.sent, 2)
	assert.Len(t, []rune(s.sent[0].content), maxMessageLength)
	assert.Len(t, []rune(s.sent[1].content), 10)
}

func TestReplyFallsBackWhenDMClosed(t *testing.T) {
	s := &fakeSender{dmOpenErr: errors.New("cannot send messages to this user")}
	d := NewDeliverer(s, zap.NewNop())

	content := strings.Repeat("b", maxMessageLength+1)
	d.Reply("author-1", "origin-1", content)

	// One notice, then both chunks, all on the origin channel.
	require.Len(t, s.sent, 3)
	assert.Equal(t, dmFallbackNotice, s.sent[0].content)
	for _, m := range s.sent {
		assert.Equal(t, "origin-1", m.channelID)
	}
}

func TestReplyFallsBackWhenDMSendFails(t *testing.T) {
	s := &fakeSender{dmChannelID: "dm-1", dmSendErr: errors.New("403")}
	d := NewDeliverer(s, zap.NewNop())

	d.Reply("author-1", "origin-1", "olá")

	require.Len(t, s.sent, 2)
	assert.Equal(t, dmFallbackNotice, s.sent[0].content)
	assert.Equal(t, "olá", s.sent[1].content)
	assert.Equal(t, "origin-1", s.sent[1].channelID)
}
