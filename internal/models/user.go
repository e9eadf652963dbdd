package models

import "strings"

// UserType enum
type UserType string

const (
	UserTypeAdopter UserType = "Adopter"
	UserTypeRehomer UserType = "Rehomer"
)

// Is compares user types case-insensitively; the profile service stores them in mixed case.
func (t UserType) Is(other UserType) bool {
	return strings.EqualFold(string(t), string(other))
}

// UserProfile is the read-only view of a user owned by the profile service.
type UserProfile struct {
	ID          string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DisplayName string   `gorm:"size:255" json:"displayName"`
	AvatarURL   *string  `gorm:"size:1024" json:"avatarUrl,omitempty"`
	UserType    UserType `gorm:"size:20" json:"userType"`
}

// TableName maps the profile onto the shared users table
func (UserProfile) TableName() string {
	return "users"
}

// Animal is the read-only view of an animal listed for rehoming.
type Animal struct {
	ID   string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name string `gorm:"size:255" json:"name"`
}

// AnimalPhoto is one photo of an animal; Order 0 is the primary photo.
type AnimalPhoto struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	AnimalID string `gorm:"size:36;index" json:"animalId"`
	PhotoURL string `gorm:"size:1024" json:"photoUrl"`
	Order    int    `gorm:"column:order" json:"order"`
}
