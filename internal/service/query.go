package service

import (
	"context"
	"fmt"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
)

const defaultHistoryLimit = 25

type queryService struct {
	appRepo    repository.ApplicationRepository
	claimRepo  repository.ClaimRepository
	actionRepo repository.ReviewActionRepository
}

func NewQueryService(
	appRepo repository.ApplicationRepository,
	claimRepo repository.ClaimRepository,
	actionRepo repository.ReviewActionRepository,
) QueryService {
	return &queryService{
		appRepo:    appRepo,
		claimRepo:  claimRepo,
		actionRepo: actionRepo,
	}
}

func (s *queryService) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	return s.appRepo.GetByID(ctx, id)
}

func (s *queryService) FindPendingApplication(ctx context.Context, guildID, userID string) (*domain.Application, error) {
	return s.appRepo.FindPending(ctx, guildID, userID)
}

func (s *queryService) RecentActions(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	actions, err := s.actionRepo.ListRecent(ctx, appID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review actions: %w", err)
	}
	return actions, nil
}

func (s *queryService) GetClaim(ctx context.Context, appID int64) (*domain.Claim, error) {
	return s.claimRepo.Get(ctx, appID)
}

func (s *queryService) GetModeratorClaim(ctx context.Context, moderatorID string) (*domain.Claim, error) {
	return s.claimRepo.GetByModerator(ctx, moderatorID)
}
