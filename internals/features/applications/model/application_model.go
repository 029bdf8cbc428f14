package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BursaryApplication struct {
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;default:gen_random_uuid();primaryKey" json:"application_id"`

	// =====================
	// Personal Information
	// =====================
	FullName   string `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Gender     string `gorm:"column:gender;type:varchar(10);not null" json:"gender"`
	Disability bool   `gorm:"column:disability;default:false" json:"disability"`
	IDNumber   string `gorm:"column:id_number;type:varchar(50);not null;uniqueIndex" json:"id_number"`

	Email         string `gorm:"column:email;type:varchar(255);not null" json:"email"`
	PhoneNumber   string `gorm:"column:phone_number;type:varchar(15);not null" json:"phone_number"`
	GuardianPhone string `gorm:"column:guardian_phone;type:varchar(15);not null" json:"guardian_phone"`
	GuardianID    string `gorm:"column:guardian_id;type:varchar(50);not null" json:"guardian_id"`

	// =====================
	// Residence Details
	// =====================
	Ward          string `gorm:"column:ward;type:varchar(50);not null;index" json:"ward"`
	Village       string `gorm:"column:village;type:varchar(100);not null" json:"village"`
	ChiefName     string `gorm:"column:chief_name;type:varchar(255);not null" json:"chief_name"`
	ChiefPhone    string `gorm:"column:chief_phone;type:varchar(15);not null" json:"chief_phone"`
	SubChiefName  string `gorm:"column:sub_chief_name;type:varchar(255);not null" json:"sub_chief_name"`
	SubChiefPhone string `gorm:"column:sub_chief_phone;type:varchar(15);not null" json:"sub_chief_phone"`

	// =====================
	// Institution Details
	// =====================
	LevelOfStudy    string `gorm:"column:level_of_study;type:varchar(20);not null" json:"level_of_study"`
	InstitutionType string `gorm:"column:institution_type;type:varchar(20);not null" json:"institution_type"`
	InstitutionName string `gorm:"column:institution_name;type:varchar(255);not null" json:"institution_name"`
	AdmissionNumber string `gorm:"column:admission_number;type:varchar(100);not null" json:"admission_number"`
	Amount          int    `gorm:"column:amount;not null;check:amount > 0" json:"amount"`
	ModeOfStudy     string `gorm:"column:mode_of_study;type:varchar(20);not null" json:"mode_of_study"`
	YearOfStudy     string `gorm:"column:year_of_study;type:varchar(20);not null" json:"year_of_study"`

	// =====================
	// Family Details
	// =====================
	FamilyStatus string  `gorm:"column:family_status;type:varchar(50);not null" json:"family_status"`
	FatherIncome *string `gorm:"column:father_income;type:varchar(20)" json:"father_income,omitempty"`
	MotherIncome *string `gorm:"column:mother_income;type:varchar(20)" json:"mother_income,omitempty"`

	// Uploaded document URLs keyed by slot (id_front, id_back,
	// admission_letter, father_death_certificate, ...).
	Documents datatypes.JSONMap `gorm:"column:documents;type:jsonb" json:"documents,omitempty"`

	// =====================
	// Confirmation & Status
	// =====================
	Confirmation         bool   `gorm:"column:confirmation;default:false" json:"confirmation"`
	DataConsent          bool   `gorm:"column:data_consent;default:false" json:"data_consent"`
	CommunicationConsent bool   `gorm:"column:communication_consent;default:false" json:"communication_consent"`
	ReferenceNumber      string `gorm:"column:reference_number;type:varchar(50);not null;uniqueIndex" json:"reference_number"`
	Status               string `gorm:"column:status;type:varchar(20);default:'pending';index" json:"status"`

	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime;index" json:"submitted_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	StatusLogs []ApplicationStatusLog `gorm:"foreignKey:ApplicationID;references:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BursaryApplication) TableName() string {
	return "bursary_applications"
}

// BeforeCreate assigns the reference inside the insert transaction.
// Collisions surface as a unique violation and the caller retries with
// a fresh value; availability is never pre-checked (that would race).
func (a *BursaryApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ReferenceNumber == "" {
		a.ReferenceNumber = NewReferenceNumber()
	}
	return nil
}

const referencePrefix = "MNG"

// NewReferenceNumber builds a human-shareable reference like
// MNG-9F3A01BC from the first 8 hex chars of a random UUID.
func NewReferenceNumber() string {
	return referencePrefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
