package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type MockPatientStore struct {
	mock.Mock
}

func (m *MockPatientStore) Get(ctx context.Context, id string) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

type MockMessageLogStore struct {
	mock.Mock
}

func (m *MockMessageLogStore) Create(ctx context.Context, log *model.MessageLog) (*model.MessageLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MessageLog), args.Error(1)
}

func outbound() *OutboundMessage {
	apptID := "a1"
	return &OutboundMessage{
		ClinicID:      "c1",
		PatientID:     "p1",
		To:            "+15550200001",
		From:          "+15550100001",
		Body:          "Hi Ana, see you soon! Reply STOP to opt out.",
		Tag:           model.Tag1Hour,
		AppointmentID: &apptID,
	}
}

func TestSMSGateway_Send(t *testing.T) {
	optedIn := &model.Patient{ID: "p1", Phone: "+15550200001", SMSOptIn: true}

	t.Run("successful send writes a sent log row", func(t *testing.T) {
		provider := NewMockProvider()
		patients := new(MockPatientStore)
		logs := new(MockMessageLogStore)

		patients.On("Get", mock.Anything, "p1").Return(optedIn, nil)
		logs.On("Create", mock.Anything, mock.MatchedBy(func(l *model.MessageLog) bool {
			return l.Status == model.MessageStatusSent &&
				l.Direction == model.DirectionOutbound &&
				l.ReminderTag == model.Tag1Hour &&
				l.ProviderID != "" &&
				l.AppointmentID != nil && *l.AppointmentID == "a1"
		})).Return(&model.MessageLog{ID: 1}, nil)

		g := NewSMSGateway(provider, patients, logs)
		res, err := g.Send(context.Background(), outbound())

		require.NoError(t, err)
		assert.Equal(t, model.MessageStatusSent, res.Status)
		assert.NotEmpty(t, res.ProviderID)
		assert.NoError(t, res.LogErr)
		require.Len(t, provider.Sent(), 1)
		assert.Equal(t, "+15550200001", provider.Sent()[0].To)
	})

	t.Run("opted-out patient is refused before the provider is called", func(t *testing.T) {
		provider := NewMockProvider()
		patients := new(MockPatientStore)
		logs := new(MockMessageLogStore)

		patients.On("Get", mock.Anything, "p1").
			Return(&model.Patient{ID: "p1", SMSOptIn: false}, nil)

		g := NewSMSGateway(provider, patients, logs)
		_, err := g.Send(context.Background(), outbound())

		assert.ErrorIs(t, err, ErrPatientOptedOut)
		assert.Empty(t, provider.Sent())
		logs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("provider failure writes a failed log row and returns the error", func(t *testing.T) {
		provider := NewMockProvider()
		provider.FailNumbers["+15550200001"] = true
		patients := new(MockPatientStore)
		logs := new(MockMessageLogStore)

		patients.On("Get", mock.Anything, "p1").Return(optedIn, nil)
		logs.On("Create", mock.Anything, mock.MatchedBy(func(l *model.MessageLog) bool {
			return l.Status == model.MessageStatusFailed && l.ErrorText != ""
		})).Return(&model.MessageLog{ID: 2}, nil)

		g := NewSMSGateway(provider, patients, logs)
		res, err := g.Send(context.Background(), outbound())

		require.Error(t, err)
		assert.Equal(t, model.MessageStatusFailed, res.Status)
		logs.AssertExpectations(t)
	})

	t.Run("log write failure is reported but does not fail the send", func(t *testing.T) {
		provider := NewMockProvider()
		patients := new(MockPatientStore)
		logs := new(MockMessageLogStore)

		patients.On("Get", mock.Anything, "p1").Return(optedIn, nil)
		logs.On("Create", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		g := NewSMSGateway(provider, patients, logs)
		res, err := g.Send(context.Background(), outbound())

		require.NoError(t, err)
		assert.Equal(t, model.MessageStatusSent, res.Status)
		assert.ErrorIs(t, res.LogErr, assert.AnError)
	})
}

func TestMockProvider_DeterministicIDs(t *testing.T) {
	provider := NewMockProvider()

	req := &SendRequest{To: "+15550200001", Body: "hello"}
	first, err := provider.Send(context.Background(), req)
	require.NoError(t, err)
	second, err := provider.Send(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.MessageID, second.MessageID)
}

func TestNewProviderClient_RequiresConfig(t *testing.T) {
	_, err := NewProviderClient(nil)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = NewProviderClient(&ProviderConfig{URL: "http://localhost:8081"})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}
