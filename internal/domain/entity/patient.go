package entity

import (
	"time"

	"github.com/google/uuid"
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Patient represents a registered clinic patient.
// Identity fields (name, age, gender) are fixed at registration;
// contact and medical fields stay mutable.
type Patient struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name"`
	Age              int        `gorm:"not null" json:"age"`
	Gender           string     `gorm:"type:varchar(10);not null" json:"gender"`
	Phone            string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	Email            *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address          string     `gorm:"type:text;not null" json:"address"`
	EmergencyContact string     `gorm:"type:varchar(20);not null" json:"emergency_contact"`
	BloodGroup       *string    `gorm:"type:varchar(5)" json:"blood_group,omitempty"`
	Allergies        StringList `gorm:"type:jsonb" json:"allergies,omitempty"`
	MedicalHistory   *string    `gorm:"type:text" json:"medical_history,omitempty"`
	RegisteredAt     time.Time  `gorm:"autoCreateTime;index" json:"registered_at"`
	RegisteredBy     uuid.UUID  `gorm:"type:uuid;not null" json:"registered_by"`
}

func (Patient) TableName() string {
	return "patients"
}
