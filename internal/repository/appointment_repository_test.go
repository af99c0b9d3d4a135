package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/test/fixtures"
)

func TestAppointmentRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, fixtures.NewTestAppointment("clinic-1", "patient-1", time.Now().Add(24*time.Hour), ""))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.AppointmentScheduled, created.Status)
}

func TestAppointmentRepository_FindOverdueScheduled(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()
	now := time.Now()

	overdue, err := repo.Create(ctx, fixtures.NewTestAppointment("clinic-1", "patient-1", now.Add(-3*time.Hour), ""))
	require.NoError(t, err)

	// inside the grace window, must not match
	_, err = repo.Create(ctx, fixtures.NewTestAppointment("clinic-1", "patient-2", now.Add(-30*time.Minute), ""))
	require.NoError(t, err)

	// already terminal, must not match
	_, err = repo.Create(ctx, fixtures.NewTestAppointment("clinic-1", "patient-3", now.Add(-5*time.Hour), model.AppointmentCancelled))
	require.NoError(t, err)

	found, err := repo.FindOverdueScheduled(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID, found[0].ID)
}

func TestAppointmentRepository_MarkNoShow(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	appt, err := repo.Create(ctx, fixtures.NewTestAppointment("clinic-1", "patient-1", time.Now().Add(-3*time.Hour), ""))
	require.NoError(t, err)

	t.Run("first mark transitions", func(t *testing.T) {
		ok, err := repo.MarkNoShow(ctx, appt.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.Get(ctx, appt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentNoShow, got.Status)
	})

	t.Run("second mark is a no-op", func(t *testing.T) {
		ok, err := repo.MarkNoShow(ctx, appt.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAppointmentRepository_FindUpcoming(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()
	now := time.Now()

	inWindow, err := repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-1",
		ScheduledAt: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	confirmed, err := repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-2",
		ScheduledAt: now.Add(4 * time.Hour),
		Status:      model.AppointmentConfirmed,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-3",
		ScheduledAt: now.Add(80 * time.Hour),
	})
	require.NoError(t, err)

	found, err := repo.FindUpcoming(ctx, now, now.Add(26*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, confirmed.ID, found[0].ID)
	assert.Equal(t, inWindow.ID, found[1].ID)
}

func TestAppointmentRepository_Confirm(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	appt, err := repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-1",
		ScheduledAt: time.Now().Add(4 * time.Hour),
	})
	require.NoError(t, err)

	ok, err := repo.Confirm(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// confirming a confirmed appointment changes nothing
	ok, err = repo.Confirm(ctx, appt.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppointmentRepository_NextScheduledForPatient(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAppointmentRepository(db)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-1",
		ScheduledAt: now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	next, err := repo.Create(ctx, &model.Appointment{
		ClinicID:    "clinic-1",
		PatientID:   "patient-1",
		ScheduledAt: now.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	got, err := repo.NextScheduledForPatient(ctx, "patient-1", now)
	require.NoError(t, err)
	assert.Equal(t, next.ID, got.ID)

	_, err = repo.NextScheduledForPatient(ctx, "patient-unknown", now)
	assert.ErrorIs(t, err, ErrNotFound)
}
