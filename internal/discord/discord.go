package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// degradedLatency is the heartbeat latency past which the connection is
// reported unhealthy.
const degradedLatency = 10 * time.Second

type Token string

type Dialer struct {
	token Token
}

func NewDialer(token Token) *Dialer {
	return &Dialer{token: token}
}

func (d *Dialer) Dial() (*Session, error) {
	session, err := discordgo.New("Bot " + string(d.token))
	if err != nil {
		return nil, err
	}

	session.Identify.Intents |= discordgo.IntentMessageContent
	err = session.Open()
	if err != nil {
		return nil, err
	}

	return &Session{s: session}, err
}

type Session struct {
	s        *discordgo.Session
	messages chan Message
}

func NewSession(dialer *Dialer) (*Session, func(), error) {
	s, err := dialer.Dial()
	if err != nil {
		return nil, nil, err
	}

	s.messages = make(chan Message, 16)
	ch := s.messages

	detach := s.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		// Ignore messages from self.
		if s.State.User != nil && s.State.User.ID == m.Author.ID {
			return
		}

		// No DMs.
		if len(m.GuildID) == 0 {
			return
		}

		ch <- FromMessageCreate(m)
	})

	return s, func() {
		detach()
		_ = s.s.Close()
	}, nil
}

func FromMessageCreate(m *discordgo.MessageCreate) Message {
	return Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.ContentWithMentionsReplaced(),
	}
}

func (s *Session) SendMessageToChannel(channelID string, msg string) error {
	_, err := s.s.ChannelMessageSend(channelID, msg)
	return err
}

func (s *Session) ReactToMessageWithEmoji(channelID, messageID, emojiID string) error {
	return s.s.MessageReactionAdd(channelID, messageID, emojiID)
}

// Health reports the gateway heartbeat latency.
func (s *Session) Health() (any, bool) {
	return checkLatency(s.s.HeartbeatLatency())
}

func checkLatency(latency time.Duration) (any, bool) {
	if latency >= degradedLatency {
		return fmt.Sprintf("discord latency=%d ms, expecting < %d ms", latency.Milliseconds(), degradedLatency.Milliseconds()), false
	}
	return fmt.Sprintf("discord latency=%d ms", latency.Milliseconds()), true
}

func (s *Session) Username() string {
	return s.s.State.User.Username
}

func (s *Session) Messages() <-chan Message {
	return s.messages
}

type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	Content   string
}
