package service

import (
	"context"
	"errors"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository"
)

type ticketCloser struct {
	tickets repository.TicketRepository
}

func NewTicketCloser(tickets repository.TicketRepository) TicketCloser {
	return &ticketCloser{tickets: tickets}
}

func closeReason(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionApprove:
		return "Application approved"
	case domain.ActionPermReject:
		return "Application permanently rejected"
	case domain.ActionKick:
		return "Applicant removed"
	default:
		return "Application rejected"
	}
}

// CloseForDecision closes any open ticket for the applicant after a terminal
// decision. No open ticket, an already-closed one, or a store failure all end
// the same way: the decision stands and this reports false.
func (s *ticketCloser) CloseForDecision(ctx context.Context, guildID, userID string, kind domain.ActionKind) bool {
	ticket, err := s.tickets.FindOpen(ctx, guildID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Ticket lookup failed", "guild_id", guildID, "user_id", userID, "error", err)
		}
		return false
	}
	if ticket.Status != domain.TicketStatusOpen {
		return false
	}
	if err := s.tickets.Close(ctx, ticket.ID, closeReason(kind)); err != nil {
		logger.Warn("Ticket closure failed", "ticket_id", ticket.ID, "error", err)
		return false
	}
	return true
}
