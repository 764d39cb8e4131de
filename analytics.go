package main

import (
	"log"
	"time"
)

// recordUsage appends a usage-analytics row without blocking the request.
// Analytics failures are logged and swallowed; they must never surface to
// the HTTP caller.
func recordUsage(username, action, detail string) {
	if DB == nil {
		return
	}
	db := DB
	go func() {
		rec := UsageRecord{
			Username:  username,
			Action:    action,
			Detail:    detail,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&rec).Error; err != nil {
			log.Printf("⚠️ usage analytics write failed (%s): %v", action, err)
		}
	}()
}

func recentActivity(limit int) ([]UsageRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var records []UsageRecord
	err := DB.Order("created_at desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
