package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckInRecordsArrival(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusActive)

	ci, snapshot, err := checkIn(db, ev.ID, "bob", 40.0, -73.9)
	require.NoError(t, err)
	assert.NotZero(t, ci.ID)
	assert.Equal(t, ev.ID, ci.EventID)
	assert.Equal(t, "bob", ci.Username)
	assert.False(t, ci.CheckinTime.IsZero())
	assert.Equal(t, ev.ID, snapshot.ID)
}

func TestCheckInTwiceConflictsAndKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusActive)

	_, _, err := checkIn(db, ev.ID, "bob", 40.0, -73.9)
	require.NoError(t, err)

	_, _, err = checkIn(db, ev.ID, "bob", 40.0, -73.9)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errorStatus(err))

	var count int64
	require.NoError(t, db.Model(&Checkin{}).
		Where("event_id = ? AND username = ?", ev.ID, "bob").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckInStorageConstraintBacksUpTheCheck(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusActive)

	first := Checkin{EventID: ev.ID, Username: "bob", CheckinTime: time.Now()}
	require.NoError(t, db.Create(&first).Error)

	// A raw insert bypassing the service's pre-check must still be refused
	// by the unique index; this is the race backstop.
	second := Checkin{EventID: ev.ID, Username: "bob", CheckinTime: time.Now()}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestCheckInRejectsCancelledEvent(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusCancelled)

	_, _, err := checkIn(db, ev.ID, "bob", 40.0, -73.9)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestCheckInRejectsUnknownEvent(t *testing.T) {
	db := newTestDB(t)

	_, _, err := checkIn(db, 42, "bob", 40.0, -73.9)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestListEventCheckinsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusActive)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"bob", "carol", "dave"} {
		ci := Checkin{EventID: ev.ID, Username: name, CheckinTime: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.Create(&ci).Error)
	}

	checkins, err := listEventCheckins(db, ev.ID)
	require.NoError(t, err)
	require.Len(t, checkins, 3)
	assert.Equal(t, "dave", checkins[0].Username)
	assert.Equal(t, "bob", checkins[2].Username)
}

func TestListUserCheckinsJoinsEventSummary(t *testing.T) {
	db := newTestDB(t)
	ev := seedEvent(t, db, "alice", "2025-06-01", EventStatusActive)
	other := seedEvent(t, db, "alice", "2025-07-01", EventStatusActive)

	early := Checkin{EventID: ev.ID, Username: "bob", CheckinTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	late := Checkin{EventID: other.ID, Username: "bob", CheckinTime: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&early).Error)
	require.NoError(t, db.Create(&late).Error)

	checkins, err := listUserCheckins(db, "bob")
	require.NoError(t, err)
	require.Len(t, checkins, 2)
	assert.Equal(t, other.ID, checkins[0].EventID)
	assert.Equal(t, "Park Cleanup", checkins[0].EventTitle)
	assert.Equal(t, "Central Park", checkins[0].EventLocation)
	assert.Equal(t, "2025-07-01", checkins[0].EventDate)
	assert.Equal(t, EventStatusActive, checkins[0].EventStatus)
}
