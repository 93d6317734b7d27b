package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Medication is one entry of a prescription's medication list
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// MedicationList is stored as a JSONB column
type MedicationList []Medication

func (l MedicationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *MedicationList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// Prescription is a diagnosis record tied to one patient, one doctor and
// one queue token. Created once, never mutated.
type Prescription struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"doctor_id"`
	TokenID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"token_id"`
	Diagnosis    string         `gorm:"type:text;not null" json:"diagnosis"`
	Symptoms     string         `gorm:"type:text;not null" json:"symptoms"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	Medications  MedicationList `gorm:"type:jsonb;not null" json:"medications"`
	FollowUpDate *time.Time     `gorm:"type:date" json:"follow_up_date,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Token   Token   `gorm:"foreignKey:TokenID" json:"token,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
