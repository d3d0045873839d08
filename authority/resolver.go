package authority

import (
	"context"
	"errors"
	"strings"

	"jobboard/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// ResolvePermissions expands a principal's role into its effective grant
// set. A missing, soft-deleted or inactive role resolves to an empty set:
// the principal stays authenticated but is authorized for nothing beyond
// public routes. Soft-deleted permissions are filtered out, methods are
// normalized upper-case and duplicate pairs are collapsed.
func ResolvePermissions(ctx context.Context, roleID types.ID) (Grants, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	role := Role{}
	if err := db.Where("id = ? AND deleted = ?", roleID, false).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Grants{}, nil
		}
		return nil, err
	}
	if !role.Active {
		return Grants{}, nil
	}

	perms, err := LoadRolePermissions(db, roleID)
	if err != nil {
		return nil, err
	}

	grants := Grants{}
	seen := map[Grant]bool{}
	for _, p := range perms {
		g := Grant{Method: strings.ToUpper(p.Method), APIPath: p.APIPath}
		if seen[g] {
			continue
		}
		seen[g] = true
		grants = append(grants, g)
	}
	return grants, nil
}

// LoadRolePermissions returns the non-deleted permissions bound to a role.
func LoadRolePermissions(db *gorm.DB, roleID types.ID) ([]Permission, error) {
	var permIds []types.ID
	if err := db.Model(&RolePermissionBinding{}).Where(&RolePermissionBinding{RoleID: roleID}).
		Pluck("permission_id", &permIds).Error; err != nil {
		return nil, err
	}

	perms := []Permission{}
	if len(permIds) == 0 {
		return perms, nil
	}
	if err := db.Model(&Permission{}).Where("id IN (?) AND deleted = ?", permIds, false).
		Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}
