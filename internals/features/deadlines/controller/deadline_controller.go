package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/features/deadlines/dto"
	"masingacdf_backend/internals/features/deadlines/model"
)

type DeadlineController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewDeadlineController(db *gorm.DB) *DeadlineController {
	return &DeadlineController{
		DB:       db,
		Validate: validator.New(),
	}
}

// Status is the public endpoint the application form polls before
// rendering.
// GET /api/deadline
func (ctrl *DeadlineController) Status(c *fiber.Ctx) error {
	deadline, err := model.ActiveDeadline(ctrl.DB)
	if err != nil {
		log.Printf("[ERROR] load active deadline: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the deadline")
	}

	if deadline == nil {
		// No configured window means submissions are open
		return helper.Success(c, "OK", fiber.Map{
			"is_open":    true,
			"configured": false,
		})
	}

	return helper.Success(c, "OK", fiber.Map{
		"is_open":        deadline.IsOpen(),
		"configured":     true,
		"name":           deadline.Name,
		"start_date":     deadline.StartDate,
		"end_date":       deadline.EndDate,
		"days_remaining": deadline.DaysRemaining(),
	})
}

// List returns every configured window, newest first.
// GET /api/a/deadlines
func (ctrl *DeadlineController) List(c *fiber.Ctx) error {
	var deadlines []model.ApplicationDeadline
	if err := ctrl.DB.Order("end_date DESC").Find(&deadlines).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load deadlines")
	}
	return helper.Success(c, "OK", deadlines)
}

// Create adds a window. Activating it deactivates every other window
// in the same transaction, so at most one stays active.
// POST /api/a/deadlines
func (ctrl *DeadlineController) Create(c *fiber.Ctx) error {
	var req dto.CreateDeadlineRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	deadline := model.ApplicationDeadline{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if deadline.IsActive {
			if err := tx.Model(&model.ApplicationDeadline{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&deadline).Error
	})
	if err != nil {
		log.Printf("[ERROR] create deadline: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not create the deadline")
	}

	log.Printf("✅ deadline %q created (%s → %s)", deadline.Name, deadline.StartDate.Format("2006-01-02"), deadline.EndDate.Format("2006-01-02"))
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Deadline created", deadline)
}

// Update patches a window; activating deactivates the others.
// PATCH /api/a/deadlines/:id
func (ctrl *DeadlineController) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.UpdateDeadlineRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var deadline model.ApplicationDeadline
	err := ctrl.DB.Where("deadline_id = ?", id).First(&deadline).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Deadline not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the deadline")
	}

	if req.Name != nil {
		deadline.Name = *req.Name
	}
	if req.StartDate != nil {
		deadline.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		deadline.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		deadline.IsActive = *req.IsActive
	}
	if !deadline.EndDate.After(deadline.StartDate) {
		return helper.Error(c, fiber.StatusBadRequest, "End date must be after the start date")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsActive != nil && *req.IsActive {
			if err := tx.Model(&model.ApplicationDeadline{}).
				Where("is_active = ? AND deadline_id <> ?", true, deadline.DeadlineID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&deadline).Error
	})
	if err != nil {
		log.Printf("[ERROR] update deadline %s: %v", id, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not update the deadline")
	}

	return helper.Success(c, "Deadline updated", deadline)
}

// Delete removes a window.
// DELETE /api/a/deadlines/:id
func (ctrl *DeadlineController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	res := ctrl.DB.Where("deadline_id = ?", id).Delete(&model.ApplicationDeadline{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not delete the deadline")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Deadline not found")
	}

	return helper.Success(c, "Deadline deleted", nil)
}
