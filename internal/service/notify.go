package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

// DefaultDeliveryTimeout bounds every single outbound delivery attempt.
const DefaultDeliveryTimeout = 30 * time.Second

// maxRenderedLength is the chat platform's message length cap; a custom
// welcome template that renders past it is treated as invalid.
const maxRenderedLength = 2000

const welcomeEmbedColor = 0x57F287

// decisionTemplate renders the applicant-facing direct message for one
// decision kind. Keeping the text with the variant avoids conditional
// branching spread across the send path.
type decisionTemplate struct {
	render func(guildName, reason string) *domain.OutboundMessage
}

var decisionTemplates = map[domain.ActionKind]decisionTemplate{
	domain.ActionApprove: {render: func(guildName, _ string) *domain.OutboundMessage {
		return &domain.OutboundMessage{
			Content: fmt.Sprintf("Your application to **%s** has been approved. Welcome aboard!", guildName),
		}
	}},
	domain.ActionReject: {render: func(guildName, reason string) *domain.OutboundMessage {
		content := fmt.Sprintf("Your application to **%s** has been rejected.", guildName)
		if reason != "" {
			content += fmt.Sprintf("\nReason: %s", reason)
		}
		content += "\nYou are welcome to apply again."
		return &domain.OutboundMessage{Content: content}
	}},
	domain.ActionPermReject: {render: func(guildName, reason string) *domain.OutboundMessage {
		content := fmt.Sprintf("Your application to **%s** has been rejected and you may not reapply.", guildName)
		if reason != "" {
			content += fmt.Sprintf("\nReason: %s", reason)
		}
		return &domain.OutboundMessage{Content: content}
	}},
	domain.ActionKick: {render: func(guildName, reason string) *domain.OutboundMessage {
		content := fmt.Sprintf("You have been removed from **%s**.", guildName)
		if reason != "" {
			content += fmt.Sprintf("\nReason: %s", reason)
		}
		return &domain.OutboundMessage{Content: content}
	}},
	domain.ActionNeedsInfo: {render: func(guildName, reason string) *domain.OutboundMessage {
		content := fmt.Sprintf("A moderator of **%s** needs more information about your application.", guildName)
		if reason != "" {
			content += fmt.Sprintf("\n%s", reason)
		}
		content += "\nPlease update and resubmit your application."
		return &domain.OutboundMessage{Content: content}
	}},
}

// DecisionNotifier implements Notifier over a chat-platform Messenger.
type DecisionNotifier struct {
	messenger Messenger
	settings  repository.SettingsRepository
	timeout   time.Duration

	// warned tracks guilds already warned about an invalid welcome template,
	// so the log does not repeat on every approval.
	mu     sync.Mutex
	warned map[string]struct{}
}

func NewDecisionNotifier(messenger Messenger, settings repository.SettingsRepository, timeout time.Duration) *DecisionNotifier {
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &DecisionNotifier{
		messenger: messenger,
		settings:  settings,
		timeout:   timeout,
		warned:    make(map[string]struct{}),
	}
}

// ResetTemplateWarnings clears the warn-once state. Test hook.
func (n *DecisionNotifier) ResetTemplateWarnings() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warned = make(map[string]struct{})
}

func (n *DecisionNotifier) warnOnce(guildID, msg string) {
	n.mu.Lock()
	_, seen := n.warned[guildID]
	n.warned[guildID] = struct{}{}
	n.mu.Unlock()
	if !seen {
		logger.Warn(msg, "guild_id", guildID)
	}
}

func (n *DecisionNotifier) guildName(ctx context.Context, guildID string) string {
	s, err := n.settings.Get(ctx, guildID)
	if err != nil || s.GuildName == "" {
		return guildID
	}
	return s.GuildName
}

// NotifyDecision sends the applicant a direct message matching the decision.
// Failures of any kind, including timeouts, come back as delivered=false and
// never propagate.
func (n *DecisionNotifier) NotifyDecision(ctx context.Context, app *domain.Application, d Decision) domain.NotificationResult {
	tpl, ok := decisionTemplates[d.Kind]
	if !ok {
		return domain.NotificationResult{Delivered: false, Failure: "no_template"}
	}
	msg := tpl.render(n.guildName(ctx, app.GuildID), d.Reason)

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.messenger.SendDirectMessage(sendCtx, app.UserID, msg); err != nil {
		failure := "send_failed"
		if errors.Is(err, context.DeadlineExceeded) {
			failure = "timeout"
		}
		logger.Warn("Applicant notification failed",
			"application_id", app.ID, "user_id", app.UserID, "failure", failure, "error", err)
		return domain.NotificationResult{Delivered: false, Failure: failure}
	}
	return domain.NotificationResult{Delivered: true}
}

// AnnounceWelcome posts the public welcome message that follows an approval:
// resolve the configured channel, verify it is writable, render the guild's
// custom template or the default layout, and send. A failed send with rich
// decoration is retried once with the decoration stripped.
func (n *DecisionNotifier) AnnounceWelcome(ctx context.Context, app *domain.Application) domain.WelcomeResult {
	settings, err := n.settings.Get(ctx, app.GuildID)
	if err != nil || settings.WelcomeChannelID == nil || *settings.WelcomeChannelID == "" {
		return domain.WelcomeResult{Failure: domain.WelcomeFailureNoChannel}
	}
	channelID := *settings.WelcomeChannelID

	if _, err := n.messenger.FetchChannel(ctx, channelID); err != nil {
		return domain.WelcomeResult{Failure: domain.WelcomeFailureUnreachable}
	}
	ok, err := n.messenger.CanSendTo(ctx, channelID)
	if err != nil {
		return domain.WelcomeResult{Failure: domain.WelcomeFailureFetchFailed}
	}
	if !ok {
		return domain.WelcomeResult{Failure: domain.WelcomeFailureNoPermission}
	}

	profile, err := n.messenger.FetchUser(ctx, app.UserID)
	if err != nil {
		return domain.WelcomeResult{Failure: domain.WelcomeFailureFetchFailed}
	}

	msg := n.renderWelcome(settings, profile)

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.messenger.SendChannelMessage(sendCtx, channelID, msg); err != nil {
		if msg.Embed == nil {
			return domain.WelcomeResult{Failure: domain.WelcomeFailureSendFailed}
		}
		// Some channels refuse embeds; retry once as plain text.
		plain := &domain.OutboundMessage{Content: msg.Content}
		if plain.Content == "" {
			plain.Content = msg.Embed.Description
		}
		retryCtx, cancelRetry := context.WithTimeout(ctx, n.timeout)
		defer cancelRetry()
		if err := n.messenger.SendChannelMessage(retryCtx, channelID, plain); err != nil {
			return domain.WelcomeResult{Failure: domain.WelcomeFailureSendFailed}
		}
	}
	return domain.WelcomeResult{Delivered: true}
}

func (n *DecisionNotifier) renderWelcome(settings *domain.GuildSettings, profile *domain.UserProfile) *domain.OutboundMessage {
	if settings.WelcomeTemplate != nil && strings.TrimSpace(*settings.WelcomeTemplate) != "" {
		rendered := RenderWelcomeTemplate(*settings.WelcomeTemplate, profile, settings.GuildName)
		if len(rendered) <= maxRenderedLength {
			return &domain.OutboundMessage{Content: rendered}
		}
		n.warnOnce(settings.GuildID, "Custom welcome template renders past the message length cap, using default layout")
	}
	return &domain.OutboundMessage{
		Content: fmt.Sprintf("<@%s>", profile.ID),
		Embed: &domain.Embed{
			Title:       "Welcome!",
			Description: fmt.Sprintf("Everyone say hello to **%s**, the newest member of **%s**!", profile.DisplayName, settings.GuildName),
			Color:       welcomeEmbedColor,
		},
	}
}

// RenderWelcomeTemplate substitutes the supported tokens into a guild's
// custom welcome template. Unknown tokens pass through unchanged.
func RenderWelcomeTemplate(tpl string, profile *domain.UserProfile, guildName string) string {
	name := profile.DisplayName
	if name == "" {
		name = profile.Username
	}
	r := strings.NewReplacer(
		"{user}", "<@"+profile.ID+">",
		"{usertag}", profile.Username,
		"{username}", name,
		"{server}", guildName,
	)
	return r.Replace(tpl)
}
