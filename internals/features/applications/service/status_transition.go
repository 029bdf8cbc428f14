package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"masingacdf_backend/internals/features/applications/model"
)

type StatusTransitioner struct {
	DB *gorm.DB
}

func NewStatusTransitioner(db *gorm.DB) *StatusTransitioner {
	return &StatusTransitioner{DB: db}
}

type TransitionResult struct {
	Changed   bool                        `json:"changed"`
	OldStatus string                      `json:"old_status"`
	NewStatus string                      `json:"new_status"`
	Log       *model.ApplicationStatusLog `json:"log,omitempty"`
}

// Transition moves an application to newStatus and appends exactly one
// audit row, both inside one transaction: the log row and the status
// change commit together or not at all. Equal statuses are a no-op and
// write nothing.
func (s *StatusTransitioner) Transition(app *model.BursaryApplication, newStatus string, actor *uuid.UUID, reason string) (*TransitionResult, error) {
	if newStatus == app.Status {
		return &TransitionResult{
			Changed:   false,
			OldStatus: app.Status,
			NewStatus: app.Status,
		}, nil
	}

	oldStatus := app.Status
	logRow := model.ApplicationStatusLog{
		ApplicationID: app.ApplicationID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     actor,
		Reason:        reason,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.BursaryApplication{}).
			Where("application_id = ?", app.ApplicationID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		return nil, err
	}

	app.Status = newStatus
	return &TransitionResult{
		Changed:   true,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Log:       &logRow,
	}, nil
}

type FieldChange struct {
	Field string
	Old   string
	New   string
}

func (f FieldChange) String() string {
	return fmt.Sprintf("%s: %s → %s", f.Field, f.Old, f.New)
}

// DiffTrackedFields compares the pre/post snapshots of the fields that
// self-edits may touch.
func DiffTrackedFields(before, after *model.BursaryApplication) []FieldChange {
	var changes []FieldChange

	track := func(field, oldV, newV string) {
		if oldV != newV {
			changes = append(changes, FieldChange{Field: field, Old: oldV, New: newV})
		}
	}

	track("institution_name", before.InstitutionName, after.InstitutionName)
	track("amount", fmt.Sprintf("%d", before.Amount), fmt.Sprintf("%d", after.Amount))
	track("ward", before.Ward, after.Ward)
	track("phone_number", before.PhoneNumber, after.PhoneNumber)
	track("email", before.Email, after.Email)

	return changes
}

// DiffEditableFields widens the tracked set with the remaining
// self-service fields. Persistence keys off this diff; the audit row
// keys off DiffTrackedFields only.
func DiffEditableFields(before, after *model.BursaryApplication) []FieldChange {
	changes := DiffTrackedFields(before, after)

	track := func(field, oldV, newV string) {
		if oldV != newV {
			changes = append(changes, FieldChange{Field: field, Old: oldV, New: newV})
		}
	}

	track("village", before.Village, after.Village)
	track("admission_number", before.AdmissionNumber, after.AdmissionNumber)

	return changes
}

// RecordSelfEdit appends the audit row for an applicant edit. The
// old == new status pair marks it as a self-edit; ChangedBy stays nil.
func (s *StatusTransitioner) RecordSelfEdit(app *model.BursaryApplication, changes []FieldChange) (*model.ApplicationStatusLog, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(changes))
	for _, ch := range changes {
		parts = append(parts, ch.String())
	}

	logRow := model.ApplicationStatusLog{
		ApplicationID: app.ApplicationID,
		OldStatus:     app.Status,
		NewStatus:     app.Status,
		ChangedBy:     nil,
		Reason:        "Application edited by applicant. Changes: " + strings.Join(parts, ", "),
	}
	if err := s.DB.Create(&logRow).Error; err != nil {
		return nil, err
	}
	return &logRow, nil
}
