package model

import "time"

// User is an authenticated account. Email lives only here, never on the
// profile, mirroring the split between the auth store and application data.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Profile is the per-account application profile, one per user, keyed by
// the user's ID.
type Profile struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	DisplayName string    `json:"displayName,omitempty" bson:"display_name,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Gender      string    `json:"gender,omitempty" bson:"gender,omitempty"`
	BirthDate   string    `json:"birthDate,omitempty" bson:"birth_date,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Role is a system role. A user has at most one role record; absence of a
// record means no system role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
)

// Valid reports whether the role is one of the known system roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCreator
}

// UserRole is the role record for one user
type UserRole struct {
	UserID string `json:"userId" bson:"_id"`
	Role   Role   `json:"role" bson:"role"`
}

// UserAccount is a profile joined with its role and email for admin views
type UserAccount struct {
	Profile `bson:",inline"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Role    Role   `json:"role,omitempty" bson:"role,omitempty"`
}
