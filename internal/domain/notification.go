package domain

// WelcomeFailure classifies why a welcome announcement could not be posted.
type WelcomeFailure string

const (
	WelcomeFailureNone         WelcomeFailure = ""
	WelcomeFailureNoChannel    WelcomeFailure = "no_channel_configured"
	WelcomeFailureUnreachable  WelcomeFailure = "channel_unreachable"
	WelcomeFailureNoPermission WelcomeFailure = "missing_send_permission"
	WelcomeFailureFetchFailed  WelcomeFailure = "fetch_failed"
	WelcomeFailureSendFailed   WelcomeFailure = "send_failed"
)

// NotificationResult is transient; it only survives as metadata attached to
// the review action that triggered the delivery attempt.
type NotificationResult struct {
	Delivered bool   `json:"delivered"`
	Failure   string `json:"failure,omitempty"`
}

// WelcomeResult reports the outcome of the public welcome announcement that
// follows an approval.
type WelcomeResult struct {
	Delivered bool           `json:"delivered"`
	Failure   WelcomeFailure `json:"failure,omitempty"`
}

// EmbedField is one titled section of a rich message.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is transport-agnostic rich message decoration. Senders that cannot
// deliver decoration may retry with it stripped.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

// OutboundMessage is a single message handed to the messaging transport.
type OutboundMessage struct {
	Content string
	Embed   *Embed
}

// ChannelInfo is the subset of channel state the review engine needs.
type ChannelInfo struct {
	ID      string
	GuildID string
	Name    string
}

// UserProfile carries the applicant fields used for mention and template
// rendering.
type UserProfile struct {
	ID          string
	Username    string
	DisplayName string
}
