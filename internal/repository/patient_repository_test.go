package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/test/fixtures"
)

func TestPatientRepository_GetByPhone(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewPatientRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, fixtures.NewTestPatient("clinic-1", "Dana", "+15551230001", true))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByPhone(ctx, "+15551230001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByPhone(ctx, "+15550000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatientRepository_SetOptInByPhone(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewPatientRepository(db)
	ctx := context.Background()

	// same number registered at two clinics
	for _, clinic := range []string{"clinic-1", "clinic-2"} {
		_, err := repo.Create(ctx, fixtures.NewTestPatient(clinic, "Dana", "+15551230001", true))
		require.NoError(t, err)
	}

	n, err := repo.SetOptInByPhone(ctx, "+15551230001", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "opt-out applies to every record of the number")

	got, err := repo.GetByPhone(ctx, "+15551230001")
	require.NoError(t, err)
	assert.False(t, got.SMSOptIn)

	n, err = repo.SetOptInByPhone(ctx, "+15559999999", false)
	require.NoError(t, err)
	assert.Zero(t, n)
}
