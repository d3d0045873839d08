package account

import (
	"context"
	"errors"
	"os"
	"strings"

	"jobboard/authority"
	"jobboard/common"
	"jobboard/idgen"
	"jobboard/persistence"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var seedPermissions = []authority.PermissionCreation{
	{Name: "Create a user", APIPath: "/v1/users", Method: "POST", Module: "USERS"},
	{Name: "Query users", APIPath: "/v1/users", Method: "GET", Module: "USERS"},
	{Name: "Get a user", APIPath: "/v1/users/:id", Method: "GET", Module: "USERS"},
	{Name: "Update a user", APIPath: "/v1/users/:id", Method: "PUT", Module: "USERS"},
	{Name: "Delete a user", APIPath: "/v1/users/:id", Method: "DELETE", Module: "USERS"},

	{Name: "Create a role", APIPath: "/v1/roles", Method: "POST", Module: "ROLES"},
	{Name: "Query roles", APIPath: "/v1/roles", Method: "GET", Module: "ROLES"},
	{Name: "Get a role", APIPath: "/v1/roles/:id", Method: "GET", Module: "ROLES"},
	{Name: "Update a role", APIPath: "/v1/roles/:id", Method: "PUT", Module: "ROLES"},
	{Name: "Delete a role", APIPath: "/v1/roles/:id", Method: "DELETE", Module: "ROLES"},

	{Name: "Create a permission", APIPath: "/v1/permissions", Method: "POST", Module: "PERMISSIONS"},
	{Name: "Query permissions", APIPath: "/v1/permissions", Method: "GET", Module: "PERMISSIONS"},
	{Name: "Get a permission", APIPath: "/v1/permissions/:id", Method: "GET", Module: "PERMISSIONS"},
	{Name: "Update a permission", APIPath: "/v1/permissions/:id", Method: "PUT", Module: "PERMISSIONS"},
	{Name: "Delete a permission", APIPath: "/v1/permissions/:id", Method: "DELETE", Module: "PERMISSIONS"},

	{Name: "Create a company", APIPath: "/v1/companies", Method: "POST", Module: "COMPANIES"},
	{Name: "Query companies", APIPath: "/v1/companies", Method: "GET", Module: "COMPANIES"},
	{Name: "Get a company", APIPath: "/v1/companies/:id", Method: "GET", Module: "COMPANIES"},
	{Name: "Update a company", APIPath: "/v1/companies/:id", Method: "PUT", Module: "COMPANIES"},
	{Name: "Delete a company", APIPath: "/v1/companies/:id", Method: "DELETE", Module: "COMPANIES"},

	{Name: "Create a job", APIPath: "/v1/jobs", Method: "POST", Module: "JOBS"},
	{Name: "Query jobs", APIPath: "/v1/jobs", Method: "GET", Module: "JOBS"},
	{Name: "Get a job", APIPath: "/v1/jobs/:id", Method: "GET", Module: "JOBS"},
	{Name: "Update a job", APIPath: "/v1/jobs/:id", Method: "PUT", Module: "JOBS"},
	{Name: "Delete a job", APIPath: "/v1/jobs/:id", Method: "DELETE", Module: "JOBS"},

	{Name: "Create a resume", APIPath: "/v1/resumes", Method: "POST", Module: "RESUMES"},
	{Name: "Query resumes", APIPath: "/v1/resumes", Method: "GET", Module: "RESUMES"},
	{Name: "Query own resumes", APIPath: "/v1/resumes/by-user", Method: "POST", Module: "RESUMES"},
	{Name: "Get a resume", APIPath: "/v1/resumes/:id", Method: "GET", Module: "RESUMES"},
	{Name: "Update resume status", APIPath: "/v1/resumes/:id", Method: "PUT", Module: "RESUMES"},
	{Name: "Delete a resume", APIPath: "/v1/resumes/:id", Method: "DELETE", Module: "RESUMES"},
}

// DefaultSecurityConfiguration idempotently seeds the protected admin role
// with every seed permission, the default user role, and the protected
// admin account. Existing records are left untouched.
func DefaultSecurityConfiguration(cfg *session.AuthConfig) error {
	m := NewAccountManage(cfg)
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	return db.Transaction(func(tx *gorm.DB) error {
		permIds := make([]types.ID, 0, len(seedPermissions))
		for _, seed := range seedPermissions {
			id, err := seedPermission(tx, m, seed)
			if err != nil {
				return err
			}
			permIds = append(permIds, id)
		}

		adminRoleID, err := seedRole(tx, m, cfg.ProtectedRoleName, "Full access to every module")
		if err != nil {
			return err
		}
		if _, err := seedRole(tx, m, cfg.DefaultRoleName, "Default role for self-registered users"); err != nil {
			return err
		}

		for _, pid := range permIds {
			if err := seedBinding(tx, m, adminRoleID, pid); err != nil {
				return err
			}
		}

		return seedAdminUser(tx, m, cfg, adminRoleID)
	})
}

func seedPermission(tx *gorm.DB, m *AccountManage, seed authority.PermissionCreation) (types.ID, error) {
	existing := authority.Permission{}
	err := tx.Where("api_path = ? AND method = ? AND deleted = ?", seed.APIPath, seed.Method, false).
		First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	perm := authority.Permission{ID: idgen.NextID(m.idWorker), Name: seed.Name,
		APIPath: seed.APIPath, Method: seed.Method, Module: seed.Module}
	perm.CreateTime = types.CurrentTimestamp()
	if err := tx.Create(&perm).Error; err != nil {
		return 0, err
	}
	return perm.ID, nil
}

func seedRole(tx *gorm.DB, m *AccountManage, name, description string) (types.ID, error) {
	normalized := strings.ToUpper(name)
	existing := authority.Role{}
	err := tx.Where("name = ? AND deleted = ?", normalized, false).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	role := authority.Role{ID: idgen.NextID(m.idWorker), Name: normalized, Description: description, Active: true}
	role.CreateTime = types.CurrentTimestamp()
	if err := tx.Create(&role).Error; err != nil {
		return 0, err
	}
	return role.ID, nil
}

func seedBinding(tx *gorm.DB, m *AccountManage, roleID, permID types.ID) error {
	existing := authority.RolePermissionBinding{}
	err := tx.Where("role_id = ? AND permission_id = ?", roleID, permID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&authority.RolePermissionBinding{ID: idgen.NextID(m.idWorker), RoleID: roleID, PermissionID: permID}).Error
}

func seedAdminUser(tx *gorm.DB, m *AccountManage, cfg *session.AuthConfig, adminRoleID types.ID) error {
	existing := User{}
	err := tx.Where("email = ? AND deleted = ?", cfg.ProtectedAccountEmail, false).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	initialAdminPassword := os.Getenv("INITIAL_ADMIN_PASSWORD")
	if initialAdminPassword == "" {
		initialAdminPassword = "admin123"
	}
	secret, err := HashPassword(initialAdminPassword)
	if err != nil {
		return err
	}
	admin := User{ID: idgen.NextID(m.idWorker), Name: "admin", Email: cfg.ProtectedAccountEmail,
		Secret: secret, RoleID: adminRoleID}
	admin.CreateTime = types.CurrentTimestamp()
	common.Log.Info("seeding initial admin account " + cfg.ProtectedAccountEmail)
	return tx.Create(&admin).Error
}
