package user

import "github.com/mallasudi/smartschool/core"

type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// User is a school member that can log in.
// Password holds either a hashed credential or, until migrated, a legacy plaintext value.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
	Status   Status `json:"status"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,role"`
}

// Clean normalizes the input the same way lookups do: whitespace is trimmed, case is preserved.
func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username)
	nu.Email = core.CleanString(nu.Email)
}

func (nu NewUser) Validate() error { return core.ValidateStruct(nu) }

// GetFilter selects a single User. Fields are checked in order: ID, Email, UsernameOrEmail.
type GetFilter struct {
	ID    string
	Email string
	// Role restricts an Email lookup to users having that Role.
	Role Role
	// UsernameOrEmail matches either field; a username match wins over another user's email match.
	UsernameOrEmail string
}
