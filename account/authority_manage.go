package account

import (
	"context"
	"errors"
	"strings"

	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/idgen"
	"jobboard/persistence"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// AuthorityManage owns the administrative lifecycle of roles and
// permissions. Authorization of the calling principal happens in the
// request filters against the permission data itself, not here.
type AuthorityManage struct {
	cfg      *session.AuthConfig
	idWorker *sonyflake.Sonyflake
}

func NewAuthorityManage(cfg *session.AuthConfig) *AuthorityManage {
	return &AuthorityManage{cfg: cfg, idWorker: sonyflake.NewSonyflake(sonyflake.Settings{})}
}

func (m *AuthorityManage) CreateRole(ctx context.Context, c *authority.RoleCreation, sec *session.Context) (*authority.Role, error) {
	role := authority.Role{ID: idgen.NextID(m.idWorker), Name: strings.ToUpper(c.Name),
		Description: c.Description, Active: c.Active}
	role.StampCreator(sec.Actor())

	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRoleNameFree(tx, role.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return m.saveBindings(tx, role.ID, c.Permissions)
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (m *AuthorityManage) QueryRoles(ctx context.Context) ([]authority.Role, error) {
	roles := []authority.Role{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Model(&authority.Role{}).Where("deleted = ?", false).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (m *AuthorityManage) DetailRole(ctx context.Context, id types.ID) (*authority.RoleDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	role := authority.Role{}
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&role).Error; err != nil {
		return nil, err
	}
	perms, err := authority.LoadRolePermissions(db, id)
	if err != nil {
		return nil, err
	}
	return &authority.RoleDetail{Role: role, Permissions: perms}, nil
}

func (m *AuthorityManage) UpdateRole(ctx context.Context, id types.ID, u *authority.RoleUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		role := authority.Role{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&role).Error; err != nil {
			return err
		}
		name := strings.ToUpper(u.Name)
		if name != role.Name {
			if err := checkRoleNameFree(tx, name, id); err != nil {
				return err
			}
		}

		role.Name, role.Description, role.Active = name, u.Description, u.Active
		role.StampUpdater(sec.Actor())
		if err := tx.Save(&role).Error; err != nil {
			return err
		}

		// bindings are rewritten as a set
		if err := tx.Delete(authority.RolePermissionBinding{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		return m.saveBindings(tx, id, u.Permissions)
	})
}

// DeleteRole soft-deletes a role; its principals lose authorization at
// their next token issuance. The configured protected role is never
// deletable.
func (m *AuthorityManage) DeleteRole(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		role := authority.Role{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&role).Error; err != nil {
			return err
		}
		if role.Name == strings.ToUpper(m.cfg.ProtectedRoleName) {
			return bizerror.ErrProtectedRole
		}
		role.StampDeleter(sec.Actor())
		if err := tx.Model(&authority.Role{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": role.DeleterID, "deleter_email": role.DeleterEmail, "delete_time": role.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&authority.Role{}).Where("id = ?", id).Update("deleted", true).Error
	})
}

func (m *AuthorityManage) CreatePermission(ctx context.Context, c *authority.PermissionCreation, sec *session.Context) (*authority.Permission, error) {
	perm := authority.Permission{ID: idgen.NextID(m.idWorker), Name: c.Name,
		APIPath: c.APIPath, Method: strings.ToUpper(c.Method), Module: c.Module}
	perm.StampCreator(sec.Actor())

	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPermissionPairFree(tx, perm.APIPath, perm.Method, 0); err != nil {
			return err
		}
		return tx.Create(&perm).Error
	})
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (m *AuthorityManage) QueryPermissions(ctx context.Context) ([]authority.Permission, error) {
	perms := []authority.Permission{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Model(&authority.Permission{}).Where("deleted = ?", false).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (m *AuthorityManage) DetailPermission(ctx context.Context, id types.ID) (*authority.Permission, error) {
	perm := authority.Permission{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (m *AuthorityManage) UpdatePermission(ctx context.Context, id types.ID, u *authority.PermissionUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		perm := authority.Permission{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&perm).Error; err != nil {
			return err
		}
		method := strings.ToUpper(u.Method)
		if perm.APIPath != u.APIPath || perm.Method != method {
			if err := checkPermissionPairFree(tx, u.APIPath, method, id); err != nil {
				return err
			}
		}

		perm.Name, perm.APIPath, perm.Method, perm.Module = u.Name, u.APIPath, method, u.Module
		perm.StampUpdater(sec.Actor())
		return tx.Save(&perm).Error
	})
}

func (m *AuthorityManage) DeletePermission(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		perm := authority.Permission{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&perm).Error; err != nil {
			return err
		}
		perm.StampDeleter(sec.Actor())
		if err := tx.Model(&authority.Permission{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": perm.DeleterID, "deleter_email": perm.DeleterEmail, "delete_time": perm.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&authority.Permission{}).Where("id = ?", id).Update("deleted", true).Error
	})
}

func (m *AuthorityManage) saveBindings(tx *gorm.DB, roleID types.ID, permissionIDs []types.ID) error {
	seen := map[types.ID]bool{}
	for _, pid := range permissionIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		binding := authority.RolePermissionBinding{ID: idgen.NextID(m.idWorker), RoleID: roleID, PermissionID: pid}
		if err := tx.Create(&binding).Error; err != nil {
			return err
		}
	}
	return nil
}

func checkRoleNameFree(tx *gorm.DB, name string, selfID types.ID) error {
	existing := authority.Role{}
	err := tx.Where("name = ? AND deleted = ?", name, false).First(&existing).Error
	if err == nil {
		if existing.ID == selfID {
			return nil
		}
		return bizerror.ErrRoleNameExisted
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func checkPermissionPairFree(tx *gorm.DB, apiPath, method string, selfID types.ID) error {
	existing := authority.Permission{}
	err := tx.Where("api_path = ? AND method = ? AND deleted = ?", apiPath, method, false).First(&existing).Error
	if err == nil {
		if existing.ID == selfID {
			return nil
		}
		return bizerror.ErrPermissionExisted
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func findRoleByName(db *gorm.DB, name string) (types.ID, error) {
	role := authority.Role{}
	if err := db.Where("name = ? AND deleted = ?", strings.ToUpper(name), false).First(&role).Error; err != nil {
		return 0, err
	}
	return role.ID, nil
}
