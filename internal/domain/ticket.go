package domain

import "time"

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is the slice of a support (modmail) thread this engine cares about:
// enough to find an open one for a guild+user pair and close it with a reason.
type Ticket struct {
	ID           int64        `json:"id"`
	GuildID      string       `json:"guild_id"`
	UserID       string       `json:"user_id"`
	Status       TicketStatus `json:"status"`
	ClosedReason *string      `json:"closed_reason,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	ClosedAt     *time.Time   `json:"closed_at,omitempty"`
}
