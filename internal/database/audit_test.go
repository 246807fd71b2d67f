package database

import (
	"context"
	"testing"
	"time"

	"zippyhand/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusChangeLog(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	booking := testBooking()
	require.NoError(t, db.CreateBooking(ctx, booking))

	changes := []models.StatusChange{
		{BookingID: booking.ID, OldStatus: models.StatusPending, NewStatus: models.StatusCompleted, ChangedAt: time.Now().UTC()},
		{BookingID: booking.ID, OldStatus: models.StatusCompleted, NewStatus: models.StatusCancelled, ChangedAt: time.Now().UTC()},
	}
	for _, change := range changes {
		require.NoError(t, db.AppendStatusChange(ctx, change))
	}

	got, err := db.ListStatusChanges(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusPending, got[0].OldStatus)
	assert.Equal(t, models.StatusCompleted, got[0].NewStatus)
	assert.Equal(t, models.StatusCancelled, got[1].NewStatus)
}

func TestListStatusChanges_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.ListStatusChanges(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, got)
}
