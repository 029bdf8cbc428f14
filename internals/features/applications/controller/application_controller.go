package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"
	"masingacdf_backend/internals/helpers/storage"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/dto"
	"masingacdf_backend/internals/features/applications/model"
	"masingacdf_backend/internals/features/applications/service"
	deadlineModel "masingacdf_backend/internals/features/deadlines/model"
	notifService "masingacdf_backend/internals/features/notifications/service"
)

type ApplicationController struct {
	DB         *gorm.DB
	Validate   *validator.Validate
	Detector   *service.DuplicateDetector
	Dispatcher *notifService.Dispatcher
	Notifier   *notifService.NotificationManager
}

func NewApplicationController(db *gorm.DB, dispatcher *notifService.Dispatcher, notifier *notifService.NotificationManager) *ApplicationController {
	return &ApplicationController{
		DB:         db,
		Validate:   validator.New(),
		Detector:   service.NewDuplicateDetector(db),
		Dispatcher: dispatcher,
		Notifier:   notifier,
	}
}

// createRetries bounds reference-collision retries on insert. The
// reference space is 16^8, so a second collision in a row is already
// a sign of something else being wrong.
const createRetries = 3

// Create handles the full submission form.
// POST /api/applications
func (ctrl *ApplicationController) Create(c *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// Submissions only while a window is open
	deadline, err := deadlineModel.ActiveDeadline(ctrl.DB)
	if err != nil {
		log.Printf("[ERROR] load active deadline: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not verify the application deadline")
	}
	if deadline != nil && !deadline.IsOpen() {
		return helper.Error(c, fiber.StatusForbidden, "The application deadline has passed")
	}

	dup, err := ctrl.Detector.Check(service.DuplicateCandidate{
		IDNumber:        req.IDNumber,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		FullName:        req.FullName,
		Ward:            req.Ward,
		InstitutionName: req.InstitutionName,
		AdmissionNumber: req.AdmissionNumber,
	})
	if err != nil {
		log.Printf("[ERROR] duplicate check: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not verify application uniqueness")
	}
	if dup.Blocked {
		return helper.ErrorWithDetails(c, fiber.StatusConflict, "Duplicate application detected", fiber.Map{
			"duplicate_error":    dup.Reason,
			"match_type":         dup.MatchType,
			"existing_reference": dup.ExistingReference,
		})
	}

	app := req.ToModel()
	if err := ctrl.insertWithRetry(app); err != nil {
		if isUniqueViolation(err, "id_number") {
			return helper.Error(c, fiber.StatusConflict, "An application with this ID number already exists")
		}
		log.Printf("[ERROR] create application: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save the application")
	}

	ctrl.enqueueReceived(app)

	data := fiber.Map{
		"reference_number": app.ReferenceNumber,
		"status":           app.Status,
		"submitted_at":     app.SubmittedAt,
	}
	if dup.Suspicious {
		data["warning"] = dup.Reason
	}
	log.Printf("✅ application %s submitted (%s, %s)", app.ReferenceNumber, app.Ward, app.InstitutionName)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Application submitted successfully", data)
}

// FastSubmit takes the trimmed quick form; the applicant completes the
// rest through the 24h edit window.
// POST /api/applications/fast
func (ctrl *ApplicationController) FastSubmit(c *fiber.Ctx) error {
	var req dto.FastSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !req.DataConsent || !req.ResidencyConfirm {
		return helper.Error(c, fiber.StatusBadRequest, "Data consent and residency confirmation are required")
	}

	deadline, err := deadlineModel.ActiveDeadline(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not verify the application deadline")
	}
	if deadline != nil && !deadline.IsOpen() {
		return helper.Error(c, fiber.StatusForbidden, "The application deadline has passed")
	}

	dup, err := ctrl.Detector.Check(service.DuplicateCandidate{
		IDNumber:    req.IDNumber,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FullName:    req.FullName,
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not verify application uniqueness")
	}
	if dup.Blocked {
		return helper.ErrorWithDetails(c, fiber.StatusConflict, "Duplicate application detected", fiber.Map{
			"duplicate_error":    dup.Reason,
			"match_type":         dup.MatchType,
			"existing_reference": dup.ExistingReference,
		})
	}

	app := &model.BursaryApplication{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		IDNumber:     req.IDNumber,
		Amount:       req.Amount,
		DataConsent:  req.DataConsent,
		Confirmation: req.ResidencyConfirm,
	}
	if err := ctrl.insertWithRetry(app); err != nil {
		if isUniqueViolation(err, "id_number") {
			return helper.Error(c, fiber.StatusConflict, "An application with this ID number already exists")
		}
		log.Printf("[ERROR] fast submit: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save the application")
	}

	ctrl.enqueueReceived(app)

	log.Printf("✅ fast application %s submitted", app.ReferenceNumber)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Application submitted successfully. Complete the remaining details within 24 hours.", fiber.Map{
		"reference_number": app.ReferenceNumber,
		"edit_deadline":    app.SubmittedAt.Add(service.EditWindow),
	})
}

// insertWithRetry creates the row, regenerating the reference when the
// unique index on reference_number fires. Other errors pass through.
func (ctrl *ApplicationController) insertWithRetry(app *model.BursaryApplication) error {
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = ctrl.DB.Create(app).Error
		if err == nil {
			return nil
		}
		if isUniqueViolation(err, "reference_number") {
			log.Printf("[WARN] reference collision on %s, retrying", app.ReferenceNumber)
			app.ReferenceNumber = model.NewReferenceNumber()
			continue
		}
		return err
	}
	return err
}

// isUniqueViolation reports whether err is a Postgres 23505 on a
// constraint whose name mentions column.
func isUniqueViolation(err error, column string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return strings.Contains(pqErr.Constraint, column) || strings.Contains(pqErr.Detail, column)
}

func (ctrl *ApplicationController) enqueueReceived(app *model.BursaryApplication) {
	snapshot := *app
	ctrl.Dispatcher.Enqueue(notifService.Job{
		Name: "application_received:" + snapshot.ReferenceNumber,
		Run: func() error {
			if res := ctrl.Notifier.NotifyApplicationReceived(&snapshot); !res.Delivered() {
				return fmt.Errorf("no channel delivered for %s", snapshot.ReferenceNumber)
			}
			return nil
		},
	})
}

// List is the admin browse endpoint with filtering, search and paging.
// GET /api/a/applications
func (ctrl *ApplicationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	query := ctrl.DB.Model(&model.BursaryApplication{})

	if status := c.Query("status"); status != "" {
		if !constants.IsValidStatus(status) {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid status filter")
		}
		query = query.Where("status = ?", status)
	}
	if ward := c.Query("ward"); ward != "" {
		query = query.Where("ward = ?", ward)
	}
	if level := c.Query("level_of_study"); level != "" {
		query = query.Where("level_of_study = ?", level)
	}
	if instType := c.Query("institution_type"); instType != "" {
		query = query.Where("institution_type = ?", instType)
	}
	if family := c.Query("family_status"); family != "" {
		query = query.Where("family_status = ?", family)
	}
	if from := c.Query("submitted_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("submitted_at >= ?", t)
		}
	}
	if to := c.Query("submitted_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("submitted_at < ?", t.Add(24*time.Hour))
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"full_name ILIKE ? OR reference_number ILIKE ? OR id_number ILIKE ? OR institution_name ILIKE ? OR admission_number ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not count applications")
	}

	var apps []model.BursaryApplication
	if err := query.
		Order("submitted_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&apps).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load applications")
	}

	return helper.Success(c, "OK", fiber.Map{
		"applications": apps,
		"pagination":   helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// Detail looks an application up by its public reference.
// GET /api/applications/:reference
func (ctrl *ApplicationController) Detail(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var app model.BursaryApplication
	err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the application")
	}

	return helper.Success(c, "OK", app)
}

// CheckIDExists tells the form whether an ID number is already taken,
// before the applicant fills in everything else.
// GET /api/applications/check-id/:id_number
func (ctrl *ApplicationController) CheckIDExists(c *fiber.Ctx) error {
	idNumber := c.Params("id_number")
	if idNumber == "" {
		return helper.Error(c, fiber.StatusBadRequest, "ID number is required")
	}

	var count int64
	if err := ctrl.DB.Model(&model.BursaryApplication{}).
		Where("id_number = ?", idNumber).
		Count(&count).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not check the ID number")
	}

	return helper.Success(c, "OK", fiber.Map{
		"exists": count > 0,
	})
}

// Delete removes an application and its audit trail (FK cascade).
// Uploaded documents are deleted from storage best-effort.
// DELETE /api/a/applications/:reference
func (ctrl *ApplicationController) Delete(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var app model.BursaryApplication
	err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Application not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load the application")
	}

	if err := ctrl.DB.Delete(&app).Error; err != nil {
		log.Printf("[ERROR] delete application %s: %v", reference, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not delete the application")
	}

	for slot, v := range app.Documents {
		if url, ok := v.(string); ok && url != "" {
			if err := storage.Delete(url); err != nil {
				log.Printf("[WARN] delete stored document %s for %s: %v", slot, reference, err)
			}
		}
	}

	log.Printf("✅ application %s deleted by %v", reference, c.Locals("username"))
	return helper.Success(c, "Application deleted", nil)
}
