package entity

// Role represents a staff role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDDoctor       = 1
	RoleIDReceptionist = 2
)

// Role name constants
const (
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// RoleNameByID resolves a role ID to its name, empty string when unknown.
func RoleNameByID(id int) string {
	switch id {
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDReceptionist:
		return RoleReceptionist
	default:
		return ""
	}
}
