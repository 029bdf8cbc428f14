package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	analyticsService "masingacdf_backend/internals/features/analytics/service"
	"masingacdf_backend/internals/features/applications/dto"
	"masingacdf_backend/internals/features/applications/model"
	"masingacdf_backend/internals/features/applications/service"
	notifService "masingacdf_backend/internals/features/notifications/service"
)

type ApplicationStatusController struct {
	DB           *gorm.DB
	Validate     *validator.Validate
	Transitioner *service.StatusTransitioner
	Dispatcher   *notifService.Dispatcher
	Notifier     *notifService.NotificationManager
	Analytics    *analyticsService.AnalyticsService
}

func NewApplicationStatusController(db *gorm.DB, dispatcher *notifService.Dispatcher, notifier *notifService.NotificationManager, analytics *analyticsService.AnalyticsService) *ApplicationStatusController {
	return &ApplicationStatusController{
		DB:           db,
		Validate:     validator.New(),
		Transitioner: service.NewStatusTransitioner(db),
		Dispatcher:   dispatcher,
		Notifier:     notifier,
		Analytics:    analytics,
	}
}

func (ctrl *ApplicationStatusController) actorID(c *fiber.Ctx) *uuid.UUID {
	if id, ok := c.Locals("admin_user_id").(uuid.UUID); ok {
		return &id
	}
	return nil
}

// UpdateStatus moves one application to a new status and notifies the
// applicant when anything actually changed.
// PATCH /api/a/applications/:reference/status
func (ctrl *ApplicationStatusController) UpdateStatus(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var app model.BursaryApplication
	err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the application")
	}

	result, err := ctrl.Transitioner.Transition(&app, req.Status, ctrl.actorID(c), req.Reason)
	if err != nil {
		log.Printf("[ERROR] status transition for %s: %v", reference, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not update the status")
	}

	if !result.Changed {
		return helper.Success(c, "No status change", fiber.Map{
			"reference_number": app.ReferenceNumber,
			"status":           app.Status,
		})
	}

	ctrl.enqueueStatusChange(&app, req.Reason)
	ctrl.Analytics.Invalidate()

	log.Printf("✅ application %s: %s → %s by %v", reference, result.OldStatus, result.NewStatus, c.Locals("username"))
	return helper.Success(c, "Status updated", fiber.Map{
		"reference_number": app.ReferenceNumber,
		"old_status":       result.OldStatus,
		"new_status":       result.NewStatus,
	})
}

func (ctrl *ApplicationStatusController) enqueueStatusChange(app *model.BursaryApplication, reason string) {
	snapshot := *app
	ctrl.Dispatcher.Enqueue(notifService.Job{
		Name: "status_change:" + snapshot.ReferenceNumber,
		Run: func() error {
			if res := ctrl.Notifier.NotifyStatusChange(&snapshot, reason); !res.Delivered() {
				return fmt.Errorf("no channel delivered for %s", snapshot.ReferenceNumber)
			}
			return nil
		},
	})
}

// History returns the audit trail newest-first.
// GET /api/a/applications/:reference/history
func (ctrl *ApplicationStatusController) History(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var app model.BursaryApplication
	err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the application")
	}

	var logs []model.ApplicationStatusLog
	if err := ctrl.DB.
		Where("application_id = ?", app.ApplicationID).
		Order("changed_at DESC").
		Find(&logs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the status history")
	}

	return helper.Success(c, "OK", fiber.Map{
		"reference_number": app.ReferenceNumber,
		"current_status":   app.Status,
		"history":          logs,
	})
}

// BulkUpdateStatus applies one decision to many references. Items are
// processed independently: one bad reference or a notification
// failure never rolls back the rest.
// POST /api/a/applications/bulk-status
func (ctrl *ApplicationStatusController) BulkUpdateStatus(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	actor := ctrl.actorID(c)
	type failure struct {
		Reference string `json:"reference"`
		Error     string `json:"error"`
	}

	var succeeded []string
	var failed []failure

	for _, reference := range req.References {
		var app model.BursaryApplication
		err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
		if err != nil {
			msg := "Could not load the application"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				msg = "Application not found"
			}
			failed = append(failed, failure{Reference: reference, Error: msg})
			continue
		}

		result, err := ctrl.Transitioner.Transition(&app, req.Status, actor, req.Reason)
		if err != nil {
			log.Printf("[ERROR] bulk transition for %s: %v", reference, err)
			failed = append(failed, failure{Reference: reference, Error: "Could not update the status"})
			continue
		}
		if result.Changed {
			ctrl.enqueueStatusChange(&app, req.Reason)
		}
		succeeded = append(succeeded, reference)
	}

	if len(succeeded) > 0 {
		ctrl.Analytics.Invalidate()
	}

	log.Printf("✅ bulk status → %s: %d/%d succeeded", req.Status, len(succeeded), len(req.References))
	return helper.Success(c, "Bulk status update completed", fiber.Map{
		"total":     len(req.References),
		"success":   len(succeeded),
		"succeeded": succeeded,
		"failed":    failed,
	})
}
