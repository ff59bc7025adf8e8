package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/service"
)

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) FindPending(ctx context.Context, guildID, userID string) (*domain.Application, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListByStatus(ctx context.Context, guildID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, guildID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Transition(ctx context.Context, p repository.TransitionParams) (*domain.TransitionResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransitionResult), args.Error(1)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Acquire(ctx context.Context, appID int64, moderatorID string) error {
	args := m.Called(ctx, appID, moderatorID)
	return args.Error(0)
}
func (m *MockClaimRepo) Get(ctx context.Context, appID int64) (*domain.Claim, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) GetByModerator(ctx context.Context, moderatorID string) (*domain.Claim, error) {
	args := m.Called(ctx, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) Release(ctx context.Context, appID int64, moderatorID string) error {
	args := m.Called(ctx, appID, moderatorID)
	return args.Error(0)
}
func (m *MockClaimRepo) ReleaseStale(ctx context.Context, maxAgeMinutes int32, actorID string) (int64, error) {
	args := m.Called(ctx, maxAgeMinutes, actorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewActionRepo
type MockReviewActionRepo struct {
	mock.Mock
}

func (m *MockReviewActionRepo) ListRecent(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error) {
	args := m.Called(ctx, appID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewAction), args.Error(1)
}
func (m *MockReviewActionRepo) AttachDeliveryOutcome(ctx context.Context, actionID int64, result domain.NotificationResult) error {
	args := m.Called(ctx, actionID, result)
	return args.Error(0)
}

// MockTicketRepo
type MockTicketRepo struct {
	mock.Mock
}

func (m *MockTicketRepo) FindOpen(ctx context.Context, guildID, userID string) (*domain.Ticket, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}
func (m *MockTicketRepo) Close(ctx context.Context, ticketID int64, reason string) error {
	args := m.Called(ctx, ticketID, reason)
	return args.Error(0)
}

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuildSettings), args.Error(1)
}
func (m *MockSettingsRepo) Upsert(ctx context.Context, s *domain.GuildSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockMessenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendDirectMessage(ctx context.Context, userID string, msg *domain.OutboundMessage) error {
	args := m.Called(ctx, userID, msg)
	return args.Error(0)
}
func (m *MockMessenger) FetchChannel(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelInfo), args.Error(1)
}
func (m *MockMessenger) SendChannelMessage(ctx context.Context, channelID string, msg *domain.OutboundMessage) error {
	args := m.Called(ctx, channelID, msg)
	return args.Error(0)
}
func (m *MockMessenger) CanSendTo(ctx context.Context, channelID string) (bool, error) {
	args := m.Called(ctx, channelID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMessenger) FetchUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyDecision(ctx context.Context, app *domain.Application, d service.Decision) domain.NotificationResult {
	args := m.Called(ctx, app, d)
	return args.Get(0).(domain.NotificationResult)
}
func (m *MockNotifier) AnnounceWelcome(ctx context.Context, app *domain.Application) domain.WelcomeResult {
	args := m.Called(ctx, app)
	return args.Get(0).(domain.WelcomeResult)
}

// MockTicketCloser
type MockTicketCloser struct {
	mock.Mock
}

func (m *MockTicketCloser) CloseForDecision(ctx context.Context, guildID, userID string, kind domain.ActionKind) bool {
	args := m.Called(ctx, guildID, userID, kind)
	return args.Bool(0)
}
