package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleStaff         Role = "Staff"
	RoleKepalaBidang  Role = "Kepala Bidang"
	RoleSekretaris    Role = "Sekretaris"
	RoleKepalaDinas   Role = "Kepala Dinas"
	RoleAdministrator Role = "Administrator"
)

var Roles = []Role{RoleStaff, RoleKepalaBidang, RoleSekretaris, RoleKepalaDinas, RoleAdministrator}

// AdminRoles may manage user accounts.
var AdminRoles = []Role{RoleAdministrator, RoleKepalaDinas}

// ApproverRoles may approve or reject letters.
var ApproverRoles = []Role{RoleKepalaDinas, RoleSekretaris, RoleAdministrator}

func (r Role) Valid() bool      { return slices.Contains(Roles, r) }
func (r Role) IsAdmin() bool    { return slices.Contains(AdminRoles, r) }
func (r Role) CanApprove() bool { return slices.Contains(ApproverRoles, r) }

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
