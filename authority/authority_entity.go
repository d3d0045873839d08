package authority

import (
	"jobboard/common"

	"github.com/fundwit/go-commons/types"
)

type Role struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	// Name is stored upper-cased and is unique among non-deleted roles.
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`

	common.AuditFields
}

type Permission struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name string `json:"name"`
	// APIPath may contain parameter segments, e.g. /v1/jobs/:id
	APIPath string `json:"apiPath"`
	// Method is stored upper-cased. (APIPath, Method) is unique among
	// non-deleted permissions.
	Method string `json:"method"`
	Module string `json:"module"`

	common.AuditFields
}

type RolePermissionBinding struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	RoleID       types.ID `json:"roleId" gorm:"unique_index:uni_role_perm"`
	PermissionID types.ID `json:"permissionId" gorm:"unique_index:uni_role_perm"`
}

type RoleCreation struct {
	Name        string     `json:"name" binding:"required,lte=64"`
	Description string     `json:"description" binding:"omitempty,lte=255"`
	Active      bool       `json:"active"`
	Permissions []types.ID `json:"permissions"`
}

type RoleUpdating struct {
	Name        string     `json:"name" binding:"required,lte=64"`
	Description string     `json:"description" binding:"omitempty,lte=255"`
	Active      bool       `json:"active"`
	Permissions []types.ID `json:"permissions"`
}

type RoleDetail struct {
	Role
	Permissions []Permission `json:"permissions"`
}

type PermissionCreation struct {
	Name    string `json:"name" binding:"required,lte=128"`
	APIPath string `json:"apiPath" binding:"required,lte=255"`
	Method  string `json:"method" binding:"required,lte=16"`
	Module  string `json:"module" binding:"required,lte=64"`
}

type PermissionUpdating struct {
	Name    string `json:"name" binding:"required,lte=128"`
	APIPath string `json:"apiPath" binding:"required,lte=255"`
	Method  string `json:"method" binding:"required,lte=16"`
	Module  string `json:"module" binding:"required,lte=64"`
}
