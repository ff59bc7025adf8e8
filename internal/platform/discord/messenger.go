package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/service"
)

// Messenger adapts a discordgo session to the transport contract consumed by
// the notification flows.
type Messenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) service.Messenger {
	return &Messenger{session: session}
}

func toMessageSend(msg *domain.OutboundMessage) *discordgo.MessageSend {
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		embed := &discordgo.MessageEmbed{
			Title:       msg.Embed.Title,
			Description: msg.Embed.Description,
			Color:       msg.Embed.Color,
		}
		for _, f := range msg.Embed.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		send.Embeds = []*discordgo.MessageEmbed{embed}
	}
	return send
}

// SendDirectMessage opens (or reuses) the DM channel with the user and sends.
// Fails when the user blocks DMs from the guild.
func (m *Messenger) SendDirectMessage(ctx context.Context, userID string, msg *domain.OutboundMessage) error {
	logger.ExternalServiceCall("discord", "SendDirectMessage", "user_id", userID)
	ch, err := m.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		logger.ExternalServiceResult("discord", "SendDirectMessage", err)
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	_, err = m.session.ChannelMessageSendComplex(ch.ID, toMessageSend(msg), discordgo.WithContext(ctx))
	logger.ExternalServiceResult("discord", "SendDirectMessage", err)
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

func (m *Messenger) FetchChannel(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	ch, err := m.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel: %w", err)
	}
	return &domain.ChannelInfo{ID: ch.ID, GuildID: ch.GuildID, Name: ch.Name}, nil
}

func (m *Messenger) SendChannelMessage(ctx context.Context, channelID string, msg *domain.OutboundMessage) error {
	logger.ExternalServiceCall("discord", "SendChannelMessage", "channel_id", channelID)
	_, err := m.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	logger.ExternalServiceResult("discord", "SendChannelMessage", err)
	if err != nil {
		return fmt.Errorf("failed to send channel message: %w", err)
	}
	return nil
}

// CanSendTo checks the bot's own permissions in the channel.
func (m *Messenger) CanSendTo(ctx context.Context, channelID string) (bool, error) {
	if m.session.State == nil || m.session.State.User == nil {
		return false, fmt.Errorf("session state not ready")
	}
	perms, err := m.session.UserChannelPermissions(m.session.State.User.ID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve channel permissions: %w", err)
	}
	return perms&discordgo.PermissionSendMessages != 0, nil
}

func (m *Messenger) FetchUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := m.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	display := user.GlobalName
	if display == "" {
		display = user.Username
	}
	return &domain.UserProfile{ID: user.ID, Username: user.Username, DisplayName: display}, nil
}
