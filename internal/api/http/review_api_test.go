package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "gatekeeper-bot/internal/api/http"
	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/security"
	"gatekeeper-bot/internal/service"
)

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) ClaimApplication(ctx context.Context, appID int64, moderatorID string) (string, error) {
	args := m.Called(ctx, appID, moderatorID)
	return args.String(0), args.Error(1)
}
func (m *mockReviewService) UnclaimApplication(ctx context.Context, appID int64, moderatorID string) error {
	args := m.Called(ctx, appID, moderatorID)
	return args.Error(0)
}
func (m *mockReviewService) Approve(ctx context.Context, appID int64, moderatorID string) (*service.DecisionReport, error) {
	args := m.Called(ctx, appID, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DecisionReport), args.Error(1)
}
func (m *mockReviewService) Reject(ctx context.Context, appID int64, moderatorID, reason string, permanent bool) (*service.DecisionReport, error) {
	args := m.Called(ctx, appID, moderatorID, reason, permanent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DecisionReport), args.Error(1)
}
func (m *mockReviewService) Kick(ctx context.Context, appID int64, moderatorID, reason string) (*service.DecisionReport, error) {
	args := m.Called(ctx, appID, moderatorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DecisionReport), args.Error(1)
}
func (m *mockReviewService) RequestInfo(ctx context.Context, appID int64, moderatorID, question string) (*service.DecisionReport, error) {
	args := m.Called(ctx, appID, moderatorID, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DecisionReport), args.Error(1)
}

type mockQueryService struct {
	mock.Mock
}

func (m *mockQueryService) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *mockQueryService) FindPendingApplication(ctx context.Context, guildID, userID string) (*domain.Application, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *mockQueryService) RecentActions(ctx context.Context, appID int64, limit int32) ([]domain.ReviewAction, error) {
	args := m.Called(ctx, appID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewAction), args.Error(1)
}
func (m *mockQueryService) GetClaim(ctx context.Context, appID int64) (*domain.Claim, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *mockQueryService) GetModeratorClaim(ctx context.Context, moderatorID string) (*domain.Claim, error) {
	args := m.Called(ctx, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func newAPIFixture(t *testing.T) (*mockReviewService, *mockQueryService, *mux.Router, string) {
	t.Helper()
	reviews := new(mockReviewService)
	queries := new(mockQueryService)
	tokens := security.NewTokenManager("test-secret-that-is-long-enough-000")

	router := mux.NewRouter()
	httpapi.RegisterReviewAPIRoutes(router, reviews, queries, tokens)

	token, err := tokens.GenerateAPIToken("M1", nil)
	assert.NoError(t, err)
	return reviews, queries, router, token
}

func TestReviewAPI_AuthRequired(t *testing.T) {
	_, _, router, _ := newAPIFixture(t)

	req := httptest.NewRequest("GET", "/api/v1/applications/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReviewAPI_HealthzIsPublic(t *testing.T) {
	_, _, router, _ := newAPIFixture(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReviewAPI_GetApplication(t *testing.T) {
	_, queries, router, token := newAPIFixture(t)

	queries.On("GetApplication", mock.Anything, int64(1)).
		Return(&domain.Application{ID: 1, GuildID: "G1", Status: domain.ApplicationStatusSubmitted}, nil)

	req := httptest.NewRequest("GET", "/api/v1/applications/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guild_id":"G1"`)
}

func TestReviewAPI_GetApplicationNotFound(t *testing.T) {
	_, queries, router, token := newAPIFixture(t)

	queries.On("GetApplication", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	req := httptest.NewRequest("GET", "/api/v1/applications/9", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewAPI_RejectUsesTokenIdentity(t *testing.T) {
	reviews, _, router, token := newAPIFixture(t)

	reviews.On("Reject", mock.Anything, int64(1), "M1", "incomplete answers", false).
		Return(&service.DecisionReport{Outcome: domain.TransitionChanged, ActionID: 42}, nil)

	body := strings.NewReader(`{"reason": "incomplete answers"}`)
	req := httptest.NewRequest("POST", "/api/v1/applications/1/reject", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	reviews.AssertExpectations(t)
}

func TestReviewAPI_ClaimConflict(t *testing.T) {
	reviews, _, router, token := newAPIFixture(t)

	reviews.On("ClaimApplication", mock.Anything, int64(1), "M1").
		Return("This application is currently claimed by <@M2>. Ask them to release it first.", nil)

	req := httptest.NewRequest("POST", "/api/v1/applications/1/claim", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "M2")
}

func TestReviewAPI_TerminalRefusalIsUnprocessable(t *testing.T) {
	reviews, _, router, token := newAPIFixture(t)

	reviews.On("Approve", mock.Anything, int64(2), "M1").
		Return(&service.DecisionReport{Outcome: domain.TransitionTerminal, PriorStatus: domain.ApplicationStatusRejected}, nil)

	req := httptest.NewRequest("POST", "/api/v1/applications/2/approve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
