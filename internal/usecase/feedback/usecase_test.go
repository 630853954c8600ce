package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
)

const queryID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

type stubAnalyticsRepo struct {
	err       error
	attachedT string
	rating    int
}

func (s *stubAnalyticsRepo) Create(_ context.Context, record entity.AnalyticsRecord) (*entity.AnalyticsRecord, error) {
	return &record, nil
}

func (s *stubAnalyticsRepo) Get(context.Context, string) (*entity.AnalyticsRecord, error) {
	return nil, entity.ErrAnalyticsNotFound
}

func (s *stubAnalyticsRepo) AttachFeedback(_ context.Context, id string, rating int, _, _ *string) error {
	if s.err != nil {
		return s.err
	}
	s.attachedT = id
	s.rating = rating
	return nil
}

type stubErrorRepo struct {
	saved *entity.FrontendError
}

func (s *stubErrorRepo) Create(_ context.Context, report entity.FrontendError) error {
	s.saved = &report
	return nil
}

func newFeedbackFixture() (*FeedbackUsecase, *stubAnalyticsRepo, *stubErrorRepo) {
	analytics := &stubAnalyticsRepo{}
	errorRepo := &stubErrorRepo{}
	v := validator.NewValidator(config.LimitsConfig{
		MaxMessageChars:  10000,
		MaxHistoryTurns:  50,
		MaxSearchResults: 20,
	})
	return NewUsecase(analytics, errorRepo, v, zap.NewNop()), analytics, errorRepo
}

func TestSubmit_AttachesToAnalyticsRecord(t *testing.T) {
	uc, analytics, _ := newFeedbackFixture()

	err := uc.Submit(context.Background(), &entity.FeedbackRequest{QueryID: queryID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, queryID, analytics.attachedT)
	assert.Equal(t, 5, analytics.rating)
}

func TestSubmit_RejectsInvalidInput(t *testing.T) {
	uc, analytics, _ := newFeedbackFixture()

	err := uc.Submit(context.Background(), &entity.FeedbackRequest{QueryID: "nope", Rating: 5})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	assert.Empty(t, analytics.attachedT)
}

func TestSubmit_UnknownQueryID(t *testing.T) {
	uc, analytics, _ := newFeedbackFixture()
	analytics.err = entity.ErrAnalyticsNotFound

	err := uc.Submit(context.Background(), &entity.FeedbackRequest{QueryID: queryID, Rating: 1})
	assert.ErrorIs(t, err, entity.ErrAnalyticsNotFound)
}

func TestLogFrontendError_ScrubsPersonalData(t *testing.T) {
	uc, _, errorRepo := newFeedbackFixture()

	err := uc.LogFrontendError(context.Background(), &entity.FrontendErrorRequest{
		ErrorMessage:   "falha ao enviar para user@example.com",
		ComponentStack: "at ChatPanel (cpf 123.456.789-09)",
		URL:            "https://app.local/chat?ip=192.168.0.1",
	})
	require.NoError(t, err)

	require.NotNil(t, errorRepo.saved)
	assert.NotContains(t, errorRepo.saved.Message, "user@example.com")
	assert.Contains(t, errorRepo.saved.Message, "[email]")
	assert.NotContains(t, errorRepo.saved.ComponentStack, "123.456.789-09")
	assert.NotContains(t, errorRepo.saved.URL, "192.168.0.1")
}

func TestLogFrontendError_RequiresMessage(t *testing.T) {
	uc, _, errorRepo := newFeedbackFixture()

	err := uc.LogFrontendError(context.Background(), &entity.FrontendErrorRequest{})
	assert.ErrorIs(t, err, entity.ErrMissingField)
	assert.Nil(t, errorRepo.saved)
}
