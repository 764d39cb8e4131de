package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// requireAdmin gates the admin surface on the requester's stored role.
// claimed is the caller-supplied username (query or body, depending on the
// endpoint); the token overrides it when one is presented.
func requireAdmin(c *gin.Context, claimed string) bool {
	username := identityFromRequest(c, claimed)
	if username == "" {
		respondError(c, forbiddenError("Admin access required"))
		return false
	}

	var user User
	if err := DB.Where("username = ?", username).First(&user).Error; err != nil || user.Role != "admin" {
		respondError(c, forbiddenError("Admin access required"))
		return false
	}
	return true
}

type userStats struct {
	TotalUsers int64 `json:"totalUsers"`
	AdminUsers int64 `json:"adminUsers"`
}

type eventStats struct {
	TotalEvents  int64 `json:"totalEvents"`
	ActiveEvents int64 `json:"activeEvents"`
}

type planStats struct {
	TotalPlans  int64 `json:"totalPlans"`
	ActivePlans int64 `json:"activePlans"`
}

type progressStats struct {
	TotalWaste    float64 `json:"totalWaste"`
	TotalProgress int64   `json:"totalProgress"`
}

type analyticsSummary struct {
	UserStats      userStats     `json:"userStats"`
	EventStats     eventStats    `json:"eventStats"`
	PlanStats      planStats     `json:"planStats"`
	ProgressStats  progressStats `json:"progressStats"`
	RecentActivity []UsageRecord `json:"recentActivity"`
}

// GetAdminAnalytics aggregates the dashboard counters. Everything is
// recomputed per request straight from the tables.
func GetAdminAnalytics(c *gin.Context) {
	if !requireAdmin(c, c.Query("username")) {
		return
	}

	var summary analyticsSummary

	queries := []error{
		DB.Model(&User{}).Count(&summary.UserStats.TotalUsers).Error,
		DB.Model(&User{}).Where("role = ?", "admin").Count(&summary.UserStats.AdminUsers).Error,
		DB.Model(&Event{}).Count(&summary.EventStats.TotalEvents).Error,
		DB.Model(&Event{}).Where("status = ?", EventStatusActive).Count(&summary.EventStats.ActiveEvents).Error,
		DB.Model(&CleanupPlan{}).Count(&summary.PlanStats.TotalPlans).Error,
		DB.Model(&CleanupPlan{}).Where("status = ?", "active").Count(&summary.PlanStats.ActivePlans).Error,
		DB.Model(&ProgressRecord{}).Count(&summary.ProgressStats.TotalProgress).Error,
		DB.Model(&ProgressRecord{}).Select("COALESCE(SUM(waste_collected), 0)").Scan(&summary.ProgressStats.TotalWaste).Error,
	}
	for _, err := range queries {
		if err != nil {
			respondError(c, err)
			return
		}
	}

	activity, err := recentActivity(10)
	if err != nil {
		respondError(c, err)
		return
	}
	summary.RecentActivity = activity

	c.JSON(http.StatusOK, gin.H{"success": true, "analytics": summary})
}

func ListAdminUsers(c *gin.Context) {
	if !requireAdmin(c, c.Query("username")) {
		return
	}

	var users []User
	if err := DB.Select("id", "username", "role", "created_at").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func UpdateUserRole(c *gin.Context) {
	if !requireAdmin(c, c.Query("username")) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body UpdateRoleRequest
	if err := c.ShouldBindJSON(&body); err != nil || (body.Role != "user" && body.Role != "admin") {
		respondError(c, validationError("role must be 'user' or 'admin'"))
		return
	}

	var user User
	if err := DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, notFoundError("User not found"))
			return
		}
		respondError(c, err)
		return
	}

	user.Role = body.Role
	if err := DB.Save(&user).Error; err != nil {
		respondError(c, err)
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func GetAdminActivity(c *gin.Context) {
	if !requireAdmin(c, c.Query("username")) {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	activities, err := recentActivity(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "activities": activities})
}

// -----------------------------
// Cleanup plans
// -----------------------------

// ListPlans is public and returns active plans; admins pass adminView=true
// to see every plan regardless of status.
func ListPlans(c *gin.Context) {
	query := DB.Order("created_at desc")
	if c.Query("adminView") == "true" {
		if !requireAdmin(c, c.Query("username")) {
			return
		}
	} else {
		query = query.Where("status = ?", "active")
	}

	var plans []CleanupPlan
	if err := query.Find(&plans).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plans": plans})
}

type CreatePlanRequest struct {
	Title             string  `json:"title" binding:"required"`
	Description       string  `json:"description" binding:"required"`
	Code              string  `json:"code" binding:"required"`
	Area              string  `json:"area" binding:"required"`
	TargetWaste       float64 `json:"targetWaste"`
	EstimatedDuration int     `json:"estimatedDuration"`
	Difficulty        string  `json:"difficulty"`
	Username          string  `json:"username" binding:"required"`
}

func CreatePlan(c *gin.Context) {
	var body CreatePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, validationError("title, description, code and area are required"))
		return
	}

	if !requireAdmin(c, body.Username) {
		return
	}

	if body.Difficulty == "" {
		body.Difficulty = "medium"
	}

	plan := CleanupPlan{
		Title:             body.Title,
		Description:       body.Description,
		Code:              body.Code,
		Area:              body.Area,
		TargetWaste:       body.TargetWaste,
		EstimatedDuration: body.EstimatedDuration,
		Difficulty:        body.Difficulty,
		Status:            "active",
		CreatedBy:         identityFromRequest(c, body.Username),
		CreatedAt:         time.Now(),
	}
	if err := DB.Create(&plan).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

type DeletePlanRequest struct {
	Username string `json:"username" binding:"required"`
}

func DeletePlan(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var body DeletePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, validationError("Username required"))
		return
	}

	if !requireAdmin(c, body.Username) {
		return
	}

	res := DB.Delete(&CleanupPlan{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, notFoundError("Plan not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
