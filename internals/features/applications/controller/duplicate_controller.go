package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "masingacdf_backend/internals/helpers"

	"masingacdf_backend/internals/features/applications/dto"
	"masingacdf_backend/internals/features/applications/service"
)

type DuplicateController struct {
	Validate *validator.Validate
	Detector *service.DuplicateDetector
}

func NewDuplicateController(db *gorm.DB) *DuplicateController {
	return &DuplicateController{
		Validate: validator.New(),
		Detector: service.NewDuplicateDetector(db),
	}
}

// Check runs the duplicate rules before the applicant fills the whole
// form. Same rules as submission, so a clean pre-check that later
// conflicts can only mean someone else applied in between.
// POST /api/applications/check-duplicate
func (ctrl *DuplicateController) Check(c *fiber.Ctx) error {
	var req dto.DuplicateCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Detector.Check(service.DuplicateCandidate{
		IDNumber:        req.IDNumber,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		FullName:        req.FullName,
		Ward:            req.Ward,
		InstitutionName: req.InstitutionName,
		AdmissionNumber: req.AdmissionNumber,
	})
	if err != nil {
		log.Printf("[ERROR] duplicate pre-check: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not check for duplicates")
	}

	message := "No duplicate found. You may proceed with your application."
	if result.Blocked || result.Suspicious {
		message = result.Reason
	}

	return helper.Success(c, "OK", fiber.Map{
		"is_duplicate":       result.Blocked,
		"is_suspicious":      result.Suspicious,
		"match_type":         result.MatchType,
		"message":            message,
		"existing_reference": result.ExistingReference,
	})
}
