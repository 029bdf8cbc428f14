package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"masingacdf_backend/internals/constants"
	applicationModel "masingacdf_backend/internals/features/applications/model"
	deadlineModel "masingacdf_backend/internals/features/deadlines/model"
	notifService "masingacdf_backend/internals/features/notifications/service"
	authModel "masingacdf_backend/internals/features/users/auth/model"
)

// reminderThresholdDays: pending applicants get a nudge once the
// window is this close to closing.
const reminderThresholdDays = 3

// Start wires the background jobs and returns the running scheduler
// so main can stop it on shutdown.
func Start(db *gorm.DB, sms *notifService.SMSService) *cron.Cron {
	c := cron.New()

	// 08:00 daily: deadline reminder SMS
	if _, err := c.AddFunc("0 8 * * *", func() {
		runDeadlineReminder(db, sms)
	}); err != nil {
		log.Printf("[ERROR] schedule deadline reminder: %v", err)
	}

	// 03:00 daily: purge expired blacklist rows
	if _, err := c.AddFunc("0 3 * * *", func() {
		cleanupTokenBlacklist(db)
	}); err != nil {
		log.Printf("[ERROR] schedule blacklist cleanup: %v", err)
	}

	c.Start()
	log.Println("✅ scheduler started")
	return c
}

func runDeadlineReminder(db *gorm.DB, sms *notifService.SMSService) {
	deadline, err := deadlineModel.ActiveDeadline(db)
	if err != nil {
		log.Printf("[ERROR] reminder: load deadline: %v", err)
		return
	}
	if deadline == nil || !deadline.IsOpen() {
		return
	}

	daysLeft := deadline.DaysRemaining()
	if daysLeft > reminderThresholdDays {
		return
	}

	var apps []applicationModel.BursaryApplication
	if err := db.
		Where("status = ? AND communication_consent = ?", constants.StatusPending, true).
		Find(&apps).Error; err != nil {
		log.Printf("[ERROR] reminder: load pending applications: %v", err)
		return
	}
	if len(apps) == 0 {
		return
	}

	message := notifService.SMSDeadlineReminder(deadline.Name, daysLeft)
	sent := 0
	for i := range apps {
		if err := sms.SendSMS(apps[i].PhoneNumber, message); err != nil {
			log.Printf("[ERROR] reminder SMS to %s: %v", apps[i].ReferenceNumber, err)
			continue
		}
		sent++
	}
	log.Printf("[INFO] deadline reminder: %d/%d SMS sent (%d day(s) left)", sent, len(apps), daysLeft)
}

func cleanupTokenBlacklist(db *gorm.DB) {
	res := db.Unscoped().
		Where("expired_at < ?", time.Now()).
		Delete(&authModel.TokenBlacklist{})
	if res.Error != nil {
		log.Printf("[ERROR] blacklist cleanup: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[INFO] blacklist cleanup: %d expired token(s) removed", res.RowsAffected)
	}
}
