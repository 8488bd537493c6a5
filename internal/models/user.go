package models

// Role gates what a user may do in the API
type Role string

const (
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team_member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleTeamMember
}

// User represents a user in the system
type User struct {
	ID           string `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Role         Role   `json:"role" gorm:"not null;default:'team_member'"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// IsManager reports whether the user holds the manager role.
func (u User) IsManager() bool {
	return u.Role == RoleManager
}
