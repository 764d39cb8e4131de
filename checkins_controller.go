package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CheckinRequest struct {
	Username  string  `json:"username" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func CheckInToEvent(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body CheckinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, validationError("Username required"))
		return
	}

	username := identityFromRequest(c, body.Username)
	ci, ev, err := checkIn(DB, id, username, body.Latitude, body.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	recordUsage(username, "event:checkin", fmt.Sprintf("event %d", ev.ID))

	c.JSON(http.StatusOK, gin.H{"success": true, "checkinId": ci.ID, "event": ev})
}

func ListEventCheckins(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	checkins, err := listEventCheckins(DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "checkins": checkins})
}

func ListUserCheckins(c *gin.Context) {
	checkins, err := listUserCheckins(DB, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "checkins": checkins})
}
