package engine

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	gateway "github.com/EliteSamurai/RehabFlow-sub000/internal/gateways"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) FindUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) FindOverdueScheduled(ctx context.Context, cutoff time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) MarkNoShow(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

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

type MockClinicStore struct {
	mock.Mock
}

func (m *MockClinicStore) Get(ctx context.Context, id string) (*model.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Clinic), args.Error(1)
}

type MockMessageLogStore struct {
	mock.Mock
}

func (m *MockMessageLogStore) ExistsReminder(ctx context.Context, appointmentID, tag string) (bool, error) {
	args := m.Called(ctx, appointmentID, tag)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageLogStore) ExistsRecoveryStep(ctx context.Context, enrollmentID int64, step int) (bool, error) {
	args := m.Called(ctx, enrollmentID, step)
	return args.Bool(0), args.Error(1)
}

type MockEnrollmentStore struct {
	mock.Mock
}

func (m *MockEnrollmentStore) Create(ctx context.Context, e *model.CampaignEnrollment) (*model.CampaignEnrollment, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CampaignEnrollment), args.Error(1)
}

func (m *MockEnrollmentStore) FindDue(ctx context.Context, now time.Time) ([]*model.CampaignEnrollment, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CampaignEnrollment), args.Error(1)
}

func (m *MockEnrollmentStore) Advance(ctx context.Context, id int64, fromStep int, nextDue time.Time) error {
	args := m.Called(ctx, id, fromStep, nextDue)
	return args.Error(0)
}

func (m *MockEnrollmentStore) Complete(ctx context.Context, id int64, fromStep int, sentinel time.Time) error {
	args := m.Called(ctx, id, fromStep, sentinel)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(ctx context.Context, out *gateway.OutboundMessage) (*gateway.SendResult, error) {
	args := m.Called(ctx, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.SendResult), args.Error(1)
}

func (m *MockGateway) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
