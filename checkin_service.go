package main

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// checkIn records that username arrived at the event. Preconditions in
// order: the event must exist and be active (404), and the user must not
// already be checked in (409). The existence check is only the friendly
// error path; the unique index on (event_id, username) is what actually
// prevents a duplicate when two requests race past the check.
func checkIn(db *gorm.DB, eventID uint, username string, lat, lng float64) (*Checkin, *Event, error) {
	if username == "" {
		return nil, nil, validationError("Username is required")
	}

	var ev Event
	if err := db.First(&ev, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundError("Event not found or inactive")
		}
		return nil, nil, err
	}
	if ev.Status != EventStatusActive {
		return nil, nil, notFoundError("Event not found or inactive")
	}

	var existing Checkin
	err := db.Where("event_id = ? AND username = ?", eventID, username).First(&existing).Error
	if err == nil {
		return nil, nil, conflictError("Already checked in to this event")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	ci := Checkin{
		EventID:     eventID,
		Username:    username,
		CheckinTime: time.Now(),
		Latitude:    lat,
		Longitude:   lng,
	}
	if err := db.Create(&ci).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, conflictError("Already checked in to this event")
		}
		return nil, nil, err
	}

	return &ci, &ev, nil
}

func listEventCheckins(db *gorm.DB, eventID uint) ([]Checkin, error) {
	var checkins []Checkin
	err := db.Where("event_id = ?", eventID).Order("checkin_time desc").Find(&checkins).Error
	if err != nil {
		return nil, err
	}
	return checkins, nil
}

// listUserCheckins returns the user's check-ins joined with event summary
// fields, newest first. The client uses this to decide which events the
// user may still log progress against.
func listUserCheckins(db *gorm.DB, username string) ([]CheckinWithEvent, error) {
	var checkins []CheckinWithEvent
	err := db.Table("event_checkins").
		Select("event_checkins.*, events.title AS event_title, events.location AS event_location, "+
			"events.date AS event_date, events.time AS event_time, events.status AS event_status").
		Joins("JOIN events ON events.id = event_checkins.event_id").
		Where("event_checkins.username = ?", username).
		Order("event_checkins.checkin_time desc").
		Scan(&checkins).Error
	if err != nil {
		return nil, err
	}
	return checkins, nil
}
