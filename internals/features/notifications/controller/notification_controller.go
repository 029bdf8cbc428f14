package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/constants"
	applicationModel "masingacdf_backend/internals/features/applications/model"
	deadlineModel "masingacdf_backend/internals/features/deadlines/model"
	"masingacdf_backend/internals/features/notifications/dto"
	"masingacdf_backend/internals/features/notifications/service"
)

type NotificationController struct {
	DB         *gorm.DB
	Validate   *validator.Validate
	Bulk       *service.BulkEmailService
	SMS        *service.SMSService
	Dispatcher *service.Dispatcher
}

func NewNotificationController(db *gorm.DB, bulk *service.BulkEmailService, sms *service.SMSService, dispatcher *service.Dispatcher) *NotificationController {
	return &NotificationController{
		DB:         db,
		Validate:   validator.New(),
		Bulk:       bulk,
		SMS:        sms,
		Dispatcher: dispatcher,
	}
}

// BulkEmail sends a custom message to the applicants behind the given
// references. Runs synchronously through the bounded pool so the
// caller gets a real success count back.
// POST /api/a/notifications/bulk-email
func (ctrl *NotificationController) BulkEmail(c *fiber.Ctx) error {
	var req dto.BulkEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var apps []applicationModel.BursaryApplication
	if err := ctrl.DB.Where("reference_number IN ?", req.References).Find(&apps).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load applications")
	}
	if len(apps) == 0 {
		return helper.Error(c, fiber.StatusNotFound, "No applications matched the given references")
	}

	items := make([]service.BulkEmailItem, 0, len(apps))
	for i := range apps {
		body := strings.ReplaceAll(req.Body, "{reference}", apps[i].ReferenceNumber)
		body = strings.ReplaceAll(body, "{name}", apps[i].FullName)
		items = append(items, service.BulkEmailItem{
			To:        apps[i].Email,
			Subject:   req.Subject,
			PlainBody: body,
		})
	}

	report := ctrl.Bulk.SendBatch(items)

	log.Printf("✅ bulk email by %v: %d/%d sent", c.Locals("username"), report.Success, report.Total)
	return helper.Success(c, "Bulk email completed", report)
}

// DeadlineReminder pushes an SMS nudge to every pending applicant
// while the active window is still open.
// POST /api/a/notifications/deadline-reminder
func (ctrl *NotificationController) DeadlineReminder(c *fiber.Ctx) error {
	var req dto.DeadlineReminderRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	deadline, err := deadlineModel.ActiveDeadline(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the deadline")
	}
	if deadline == nil || !deadline.IsOpen() {
		return helper.Error(c, fiber.StatusConflict, "No open application deadline to remind about")
	}

	var apps []applicationModel.BursaryApplication
	if err := ctrl.DB.
		Where("status = ? AND communication_consent = ?", constants.StatusPending, true).
		Find(&apps).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load pending applications")
	}

	if req.DryRun {
		return helper.Success(c, "Dry run", fiber.Map{
			"recipients":     len(apps),
			"days_remaining": deadline.DaysRemaining(),
		})
	}

	message := service.SMSDeadlineReminder(deadline.Name, deadline.DaysRemaining())
	phones := make([]string, 0, len(apps))
	for i := range apps {
		phones = append(phones, apps[i].PhoneNumber)
	}

	results := ctrl.SMS.SendBulk(phones, message)
	sent := 0
	for _, r := range results {
		if r.Sent {
			sent++
		}
	}

	log.Printf("✅ deadline reminder: %d/%d SMS sent", sent, len(results))
	return helper.Success(c, "Deadline reminders sent", fiber.Map{
		"total": len(results),
		"sent":  sent,
	})
}

// Stats exposes the dispatcher counters for the ops dashboard.
// GET /api/a/notifications/stats
func (ctrl *NotificationController) Stats(c *fiber.Ctx) error {
	return helper.Success(c, "OK", ctrl.Dispatcher.Stats())
}
