package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/test/fixtures"
)

func TestClinicRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewClinicRepository(db)
	ctx := context.Background()

	c := fixtures.TestClinic1
	created, err := repo.Create(ctx, &c)
	require.NoError(t, err)
	assert.Equal(t, fixtures.TestClinic1.ID, created.ID)

	got, err := repo.Get(ctx, fixtures.TestClinic1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Physical Therapy", got.Name)
	assert.Equal(t, "+15550100001", got.SenderNumber)

	loc := got.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestClinicRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewClinicRepository(db)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClinicLocation_BadTimezoneFallsBack(t *testing.T) {
	c := fixtures.TestClinic2
	c.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, c.Location())
}
