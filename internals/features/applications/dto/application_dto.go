package dto

import (
	"masingacdf_backend/internals/features/applications/model"
)

type CreateApplicationRequest struct {
	// Personal
	FullName   string `json:"full_name" validate:"required,max=255"`
	Gender     string `json:"gender" validate:"required,oneof=male female"`
	Disability bool   `json:"disability"`
	IDNumber   string `json:"id_number" validate:"required,max=50"`

	Email         string `json:"email" validate:"required,email"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=15"`
	GuardianPhone string `json:"guardian_phone" validate:"required,max=15"`
	GuardianID    string `json:"guardian_id" validate:"required,max=50"`

	// Residence
	Ward          string `json:"ward" validate:"required,oneof=kivaa masinga-central ndithini ekalakala muthesya"`
	Village       string `json:"village" validate:"required,max=100"`
	ChiefName     string `json:"chief_name" validate:"required,max=255"`
	ChiefPhone    string `json:"chief_phone" validate:"required,max=15"`
	SubChiefName  string `json:"sub_chief_name" validate:"required,max=255"`
	SubChiefPhone string `json:"sub_chief_phone" validate:"required,max=15"`

	// Institution
	LevelOfStudy    string `json:"level_of_study" validate:"required,oneof=degree certificate diploma artisan"`
	InstitutionType string `json:"institution_type" validate:"required,oneof=college university"`
	InstitutionName string `json:"institution_name" validate:"required,max=255"`
	AdmissionNumber string `json:"admission_number" validate:"required,max=100"`
	Amount          int    `json:"amount" validate:"required,gt=0"`
	ModeOfStudy     string `json:"mode_of_study" validate:"required,oneof=full-time part-time"`
	YearOfStudy     string `json:"year_of_study" validate:"required,oneof=first-year second-year third-year final-year"`

	// Family
	FamilyStatus string  `json:"family_status" validate:"required,oneof=both-parents-alive single-parent partial-orphan total-orphan"`
	FatherIncome *string `json:"father_income" validate:"omitempty,oneof=low medium high"`
	MotherIncome *string `json:"mother_income" validate:"omitempty,oneof=low medium high"`

	// Consent
	Confirmation         bool `json:"confirmation" validate:"eq=true"`
	DataConsent          bool `json:"data_consent" validate:"eq=true"`
	CommunicationConsent bool `json:"communication_consent"`
}

func (r *CreateApplicationRequest) ToModel() *model.BursaryApplication {
	return &model.BursaryApplication{
		FullName:             r.FullName,
		Gender:               r.Gender,
		Disability:           r.Disability,
		IDNumber:             r.IDNumber,
		Email:                r.Email,
		PhoneNumber:          r.PhoneNumber,
		GuardianPhone:        r.GuardianPhone,
		GuardianID:           r.GuardianID,
		Ward:                 r.Ward,
		Village:              r.Village,
		ChiefName:            r.ChiefName,
		ChiefPhone:           r.ChiefPhone,
		SubChiefName:         r.SubChiefName,
		SubChiefPhone:        r.SubChiefPhone,
		LevelOfStudy:         r.LevelOfStudy,
		InstitutionType:      r.InstitutionType,
		InstitutionName:      r.InstitutionName,
		AdmissionNumber:      r.AdmissionNumber,
		Amount:               r.Amount,
		ModeOfStudy:          r.ModeOfStudy,
		YearOfStudy:          r.YearOfStudy,
		FamilyStatus:         r.FamilyStatus,
		FatherIncome:         r.FatherIncome,
		MotherIncome:         r.MotherIncome,
		Confirmation:         r.Confirmation,
		DataConsent:          r.DataConsent,
		CommunicationConsent: r.CommunicationConsent,
	}
}

// FastSubmitRequest is the trimmed payload for the fast submission
// endpoint: minimum fields, documents come later through editing.
type FastSubmitRequest struct {
	FullName         string `json:"full_name" validate:"required,max=255"`
	Email            string `json:"email" validate:"required,email"`
	PhoneNumber      string `json:"phone_number" validate:"required,max=15"`
	IDNumber         string `json:"id_number" validate:"required,max=50"`
	Amount           int    `json:"amount" validate:"required,gt=0"`
	DataConsent      bool   `json:"data_consent"`
	ResidencyConfirm bool   `json:"residency_confirm"`
}

// UpdateApplicationRequest carries the self-service editable fields.
// Email identifies the owner; nil pointers are left untouched.
type UpdateApplicationRequest struct {
	Email string `json:"email" validate:"required,email"`

	InstitutionName *string `json:"institution_name" validate:"omitempty,max=255"`
	Amount          *int    `json:"amount" validate:"omitempty,gt=0"`
	Ward            *string `json:"ward" validate:"omitempty,oneof=kivaa masinga-central ndithini ekalakala muthesya"`
	PhoneNumber     *string `json:"phone_number" validate:"omitempty,max=15"`
	NewEmail        *string `json:"new_email" validate:"omitempty,email"`
	Village         *string `json:"village" validate:"omitempty,max=100"`
	AdmissionNumber *string `json:"admission_number" validate:"omitempty,max=100"`
}

type DuplicateCheckRequest struct {
	IDNumber    string `json:"id_number" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`

	FullName        string `json:"full_name"`
	Ward            string `json:"ward"`
	InstitutionName string `json:"institution_name"`
	AdmissionNumber string `json:"admission_number"`
}

type EditEligibilityRequest struct {
	ReferenceNumber string `json:"reference_number" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason string `json:"reason"`
}

type BulkStatusRequest struct {
	References []string `json:"references" validate:"required,min=1,dive,required"`
	Status     string   `json:"status" validate:"required,oneof=approved rejected"`
	Reason     string   `json:"reason"`
}
