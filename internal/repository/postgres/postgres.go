package postgres

import (
	"database/sql"

	"gatekeeper-bot/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ApplicationRepository
	repository.ClaimRepository
	repository.ReviewActionRepository
	repository.TicketRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ApplicationRepository:  NewApplicationRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		ReviewActionRepository: NewReviewActionRepository(db),
		TicketRepository:       NewTicketRepository(db),
		SettingsRepository:     NewSettingsRepository(db),
	}
}
