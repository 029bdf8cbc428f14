package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"
	"masingacdf_backend/internals/helpers/storage"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/dto"
	"masingacdf_backend/internals/features/applications/model"
	"masingacdf_backend/internals/features/applications/service"
)

// Document slots an applicant may upload into. Photo slots are
// recompressed to WebP; the rest are stored as-is.
var documentSlots = map[string]bool{
	"id_front":                 true,
	"id_back":                  true,
	"guardian_id_front":        true,
	"guardian_id_back":         true,
	"admission_letter":         true,
	"fee_structure":            true,
	"father_death_certificate": true,
	"mother_death_certificate": true,
	"passport_photo":           true,
}

var photoSlots = map[string]bool{
	"passport_photo": true,
}

type ApplicationEditController struct {
	DB           *gorm.DB
	Validate     *validator.Validate
	Editability  *service.EditabilityChecker
	Transitioner *service.StatusTransitioner
}

func NewApplicationEditController(db *gorm.DB) *ApplicationEditController {
	return &ApplicationEditController{
		DB:           db,
		Validate:     validator.New(),
		Editability:  service.NewEditabilityChecker(db),
		Transitioner: service.NewStatusTransitioner(db),
	}
}

// findOwned loads the application by reference and checks the caller
// owns it via the email they supplied.
func (ctrl *ApplicationEditController) findOwned(c *fiber.Ctx, reference, email string) (*model.BursaryApplication, error) {
	var app model.BursaryApplication
	err := ctrl.DB.Where("reference_number = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.Error(c, fiber.StatusNotFound, "Application not found")
		}
		return nil, helper.Error(c, fiber.StatusInternalServerError, "Could not load the application")
	}
	if !strings.EqualFold(app.Email, email) {
		return nil, helper.Error(c, fiber.StatusForbidden, "Email does not match the application on record")
	}
	return &app, nil
}

// CheckEligibility tells the applicant whether the edit window is
// still open, without exposing the record itself.
// POST /api/applications/edit/check
func (ctrl *ApplicationEditController) CheckEligibility(c *fiber.Ctx) error {
	var req dto.EditEligibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	app, errResp := ctrl.findOwned(c, req.ReferenceNumber, req.Email)
	if app == nil {
		return errResp
	}

	canEdit, reason := ctrl.Editability.CanEdit(app)
	return helper.Success(c, "OK", fiber.Map{
		"can_edit":            canEdit,
		"reason":              reason,
		"edit_time_remaining": service.EditTimeRemaining(app),
		"status":              app.Status,
	})
}

// GetForEdit returns the editable snapshot once ownership and the edit
// window both check out.
// POST /api/applications/edit/load
func (ctrl *ApplicationEditController) GetForEdit(c *fiber.Ctx) error {
	var req dto.EditEligibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	app, errResp := ctrl.findOwned(c, req.ReferenceNumber, req.Email)
	if app == nil {
		return errResp
	}

	if canEdit, reason := ctrl.Editability.CanEdit(app); !canEdit {
		return helper.Error(c, fiber.StatusForbidden, reason)
	}

	return helper.Success(c, "OK", fiber.Map{
		"application":         app,
		"edit_time_remaining": service.EditTimeRemaining(app),
	})
}

// Update applies the self-service field changes and records the audit
// row with the field diff.
// PUT /api/applications/:reference
func (ctrl *ApplicationEditController) Update(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var req dto.UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	app, errResp := ctrl.findOwned(c, reference, req.Email)
	if app == nil {
		return errResp
	}

	if canEdit, reason := ctrl.Editability.CanEdit(app); !canEdit {
		return helper.Error(c, fiber.StatusForbidden, reason)
	}

	before := *app

	if req.InstitutionName != nil {
		app.InstitutionName = *req.InstitutionName
	}
	if req.Amount != nil {
		app.Amount = *req.Amount
	}
	if req.Ward != nil {
		if !constants.IsValidWard(*req.Ward) {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid ward")
		}
		app.Ward = *req.Ward
	}
	if req.PhoneNumber != nil {
		app.PhoneNumber = *req.PhoneNumber
	}
	if req.NewEmail != nil {
		app.Email = *req.NewEmail
	}
	if req.Village != nil {
		app.Village = *req.Village
	}
	if req.AdmissionNumber != nil {
		app.AdmissionNumber = *req.AdmissionNumber
	}

	changes := service.DiffEditableFields(&before, app)
	if len(changes) == 0 {
		return helper.Success(c, "No changes detected", fiber.Map{
			"changes_made":        []string{},
			"edit_time_remaining": service.EditTimeRemaining(app),
		})
	}

	if err := ctrl.DB.Save(app).Error; err != nil {
		log.Printf("[ERROR] update application %s: %v", reference, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not update the application")
	}

	// Only the tracked subset lands in the audit trail
	if tracked := service.DiffTrackedFields(&before, app); len(tracked) > 0 {
		if _, err := ctrl.Transitioner.RecordSelfEdit(app, tracked); err != nil {
			// Edit already persisted; the missing audit row is logged
			log.Printf("[ERROR] record self-edit audit for %s: %v", reference, err)
		}
	}

	changeStrings := make([]string, 0, len(changes))
	for _, ch := range changes {
		changeStrings = append(changeStrings, ch.String())
	}

	log.Printf("✅ application %s edited by applicant (%d change(s))", reference, len(changes))
	return helper.Success(c, "Application updated successfully", fiber.Map{
		"changes_made":        changeStrings,
		"edit_time_remaining": service.EditTimeRemaining(app),
	})
}

// UploadDocument stores one file into a named slot and links its URL
// on the application. Ownership and the edit window gate it like any
// other edit.
// POST /api/applications/:reference/documents
func (ctrl *ApplicationEditController) UploadDocument(c *fiber.Ctx) error {
	reference := c.Params("reference")
	email := c.FormValue("email")
	slot := c.FormValue("slot")

	if email == "" || slot == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Email and document slot are required")
	}
	if !documentSlots[slot] {
		return helper.Error(c, fiber.StatusBadRequest, "Unknown document slot")
	}

	app, errResp := ctrl.findOwned(c, reference, email)
	if app == nil {
		return errResp
	}

	if canEdit, reason := ctrl.Editability.CanEdit(app); !canEdit {
		return helper.Error(c, fiber.StatusForbidden, reason)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "File is required")
	}

	folder := "applications/" + app.ReferenceNumber
	var url string
	if photoSlots[slot] {
		url, err = storage.UploadPhotoAsWebP(folder, fileHeader)
	} else {
		url, err = storage.UploadDocument(folder, fileHeader)
	}
	if err != nil {
		log.Printf("[ERROR] upload %s for %s: %v", slot, reference, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store the document")
	}

	// Replacing a slot deletes the previous file best-effort
	if old, ok := app.Documents[slot].(string); ok && old != "" && old != url {
		if delErr := storage.Delete(old); delErr != nil {
			log.Printf("[WARN] delete replaced document %s: %v", slot, delErr)
		}
	}

	if app.Documents == nil {
		app.Documents = datatypes.JSONMap{}
	}
	app.Documents[slot] = url

	if err := ctrl.DB.Model(app).Update("documents", app.Documents).Error; err != nil {
		log.Printf("[ERROR] link document %s for %s: %v", slot, reference, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save the document link")
	}

	log.Printf("✅ document %s uploaded for %s", slot, reference)
	return helper.Success(c, "Document uploaded", fiber.Map{
		"slot": slot,
		"url":  url,
	})
}
