package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"masingacdf_backend/internals/constants"
	"masingacdf_backend/internals/features/applications/model"
)

type MatchType string

const (
	MatchNone                 MatchType = ""
	MatchExactID              MatchType = "exact_id"
	MatchEmailPhone           MatchType = "email_phone"
	MatchInstitutionAdmission MatchType = "institution_admission"
	MatchFuzzy                MatchType = "fuzzy"
)

// DuplicateWindow is the rolling academic-year cutoff: records older
// than this never count as duplicates (except the hard ID rule).
const DuplicateWindow = 180 * 24 * time.Hour

// ReapplicationCooldown: a rejected applicant may submit afresh once
// this much time has passed since the rejected submission.
const ReapplicationCooldown = 90 * 24 * time.Hour

type DuplicateCandidate struct {
	IDNumber        string
	Email           string
	PhoneNumber     string
	FullName        string
	Ward            string
	InstitutionName string
	AdmissionNumber string
}

type DuplicateResult struct {
	Blocked           bool      `json:"is_duplicate"`
	Suspicious        bool      `json:"is_suspicious"`
	MatchType         MatchType `json:"match_type,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	ExistingReference string    `json:"existing_reference,omitempty"`
}

func (r *DuplicateResult) Clean() bool {
	return !r.Blocked && !r.Suspicious
}

type DuplicateDetector struct {
	DB *gorm.DB
}

func NewDuplicateDetector(db *gorm.DB) *DuplicateDetector {
	return &DuplicateDetector{DB: db}
}

func (d *DuplicateDetector) Check(cand DuplicateCandidate) (*DuplicateResult, error) {
	return d.CheckAt(cand, time.Now())
}

// CheckAt evaluates the duplicate rules in strict priority order;
// the first matching rule wins.
func (d *DuplicateDetector) CheckAt(cand DuplicateCandidate, now time.Time) (*DuplicateResult, error) {
	// 1) Hard block: any existing application with the same ID number,
	//    regardless of status. Mirrors the unique constraint.
	existing, err := d.firstMatch(d.DB.Where("id_number = ?", cand.IDNumber))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[WARN] duplicate: ID %s already has application %s", cand.IDNumber, existing.ReferenceNumber)
		return &DuplicateResult{
			Blocked:           true,
			MatchType:         MatchExactID,
			Reason:            fmt.Sprintf("An application with ID number %s already exists. Reference: %s", cand.IDNumber, existing.ReferenceNumber),
			ExistingReference: existing.ReferenceNumber,
		}, nil
	}

	windowStart := now.Add(-DuplicateWindow)

	// 2) Email + phone combination (strong indicator). Rejected records
	//    are excluded so a rejection does not block re-application.
	existing, err = d.firstMatch(d.DB.
		Where("email = ? AND phone_number = ?", cand.Email, cand.PhoneNumber).
		Where("submitted_at >= ?", windowStart).
		Where("status <> ?", constants.StatusRejected))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Printf("[WARN] duplicate: email %s + phone %s", cand.Email, cand.PhoneNumber)
		return &DuplicateResult{
			Blocked:           true,
			MatchType:         MatchEmailPhone,
			Reason:            fmt.Sprintf("An application with this email and phone number already exists. Reference: %s", existing.ReferenceNumber),
			ExistingReference: existing.ReferenceNumber,
		}, nil
	}

	// 3) Same institution + admission number.
	if cand.InstitutionName != "" && cand.AdmissionNumber != "" {
		existing, err = d.firstMatch(d.DB.
			Where("LOWER(institution_name) = LOWER(?)", cand.InstitutionName).
			Where("admission_number = ?", cand.AdmissionNumber).
			Where("submitted_at >= ?", windowStart).
			Where("status <> ?", constants.StatusRejected))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Printf("[WARN] duplicate: institution %s + admission %s", cand.InstitutionName, cand.AdmissionNumber)
			return &DuplicateResult{
				Blocked:           true,
				MatchType:         MatchInstitutionAdmission,
				Reason:            fmt.Sprintf("An application for %s with admission number %s already exists. Reference: %s", cand.InstitutionName, cand.AdmissionNumber, existing.ReferenceNumber),
				ExistingReference: existing.ReferenceNumber,
			}, nil
		}
	}

	// 4) Fuzzy: same name + ward + institution (possible typo in the
	//    ID number). Warns, never blocks.
	if cand.FullName != "" && cand.Ward != "" && cand.InstitutionName != "" {
		existing, err = d.firstMatch(d.DB.
			Where("LOWER(full_name) = LOWER(?)", cand.FullName).
			Where("ward = ?", cand.Ward).
			Where("LOWER(institution_name) = LOWER(?)", cand.InstitutionName).
			Where("submitted_at >= ?", windowStart).
			Where("status <> ?", constants.StatusRejected))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Printf("[INFO] potential duplicate (fuzzy): %s in %s", cand.FullName, cand.Ward)
			return &DuplicateResult{
				Suspicious:        true,
				MatchType:         MatchFuzzy,
				Reason:            fmt.Sprintf("A similar application was found. If this is not you, proceed. Reference: %s", existing.ReferenceNumber),
				ExistingReference: existing.ReferenceNumber,
			}, nil
		}
	}

	return &DuplicateResult{}, nil
}

func (d *DuplicateDetector) firstMatch(query *gorm.DB) (*model.BursaryApplication, error) {
	var app model.BursaryApplication
	err := query.Order("submitted_at ASC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// AllowReapplication reports whether the owner of a rejected
// application may submit a fresh one.
func AllowReapplication(app *model.BursaryApplication, now time.Time) (bool, string) {
	if app.Status == constants.StatusRejected {
		if now.Sub(app.SubmittedAt) > ReapplicationCooldown {
			return true, "Previous application was rejected over 3 months ago"
		}
	}
	return false, "Active application exists"
}
