package enums

import "fmt"

// UserRole represents a dashboard role. Admin is the operator account and is never a managed user.
type UserRole string

const (
	UserRoleAdmin    UserRole = "Admin"
	UserRoleSubAdmin UserRole = "Sub-Admin"
	UserRoleTrainer  UserRole = "Trainer"
	UserRoleTrainee  UserRole = "Trainee"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleSubAdmin,
	UserRoleTrainer,
	UserRoleTrainee,
}

func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// IsManaged reports whether accounts with this role live in the managed user list.
func (u UserRole) IsManaged() bool {
	return u.IsValid() && u != UserRoleAdmin
}

// CanManageUsers reports whether the role may administer managed users.
func (u UserRole) CanManageUsers() bool {
	return u == UserRoleAdmin || u == UserRoleSubAdmin
}

// CanUpload reports whether the role may create products and upload documents.
func (u UserRole) CanUpload() bool {
	return u == UserRoleAdmin || u == UserRoleSubAdmin || u == UserRoleTrainer
}
