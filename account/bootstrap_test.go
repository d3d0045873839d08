package account

import (
	"context"
	"testing"

	"jobboard/authority"
	"jobboard/persistence"
	"jobboard/testinfra"

	. "github.com/onsi/gomega"
)

func TestDefaultSecurityConfiguration(t *testing.T) {
	t.Run("should seed permissions, roles, bindings and the admin account idempotently", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)
		cfg := m.cfg

		Expect(DefaultSecurityConfiguration(cfg)).To(BeNil())
		db := persistence.ActiveDataSourceManager.GormDB(context.Background())

		perms := []authority.Permission{}
		Expect(db.Where("deleted = ?", false).Find(&perms).Error).To(BeNil())
		Expect(len(perms)).To(Equal(len(seedPermissions)))

		adminRole := authority.Role{}
		Expect(db.Where("name = ?", "SUPER_ADMIN").First(&adminRole).Error).To(BeNil())
		Expect(adminRole.Active).To(BeTrue())
		defaultRole := authority.Role{}
		Expect(db.Where("name = ?", "NORMAL_USER").First(&defaultRole).Error).To(BeNil())

		// the admin role holds every seeded permission
		bindings := []authority.RolePermissionBinding{}
		Expect(db.Where("role_id = ?", adminRole.ID).Find(&bindings).Error).To(BeNil())
		Expect(len(bindings)).To(Equal(len(seedPermissions)))

		admin := User{}
		Expect(db.Where("email = ?", cfg.ProtectedAccountEmail).First(&admin).Error).To(BeNil())
		Expect(admin.RoleID).To(Equal(adminRole.ID))
		Expect(VerifyPassword("admin123", admin.Secret)).To(BeTrue())

		// running again leaves everything untouched
		Expect(DefaultSecurityConfiguration(cfg)).To(BeNil())
		permsAgain := []authority.Permission{}
		Expect(db.Where("deleted = ?", false).Find(&permsAgain).Error).To(BeNil())
		Expect(len(permsAgain)).To(Equal(len(seedPermissions)))
		rolesAgain := []authority.Role{}
		Expect(db.Find(&rolesAgain).Error).To(BeNil())
		Expect(len(rolesAgain)).To(Equal(2))
		adminAgain := User{}
		Expect(db.Where("email = ?", cfg.ProtectedAccountEmail).First(&adminAgain).Error).To(BeNil())
		Expect(adminAgain.ID).To(Equal(admin.ID))
	})

	t.Run("should keep a manually changed admin secret across restarts", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)
		cfg := m.cfg

		Expect(DefaultSecurityConfiguration(cfg)).To(BeNil())
		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		Expect(db.Model(&User{}).Where("email = ?", cfg.ProtectedAccountEmail).
			Update("secret", "custom-digest").Error).To(BeNil())

		Expect(DefaultSecurityConfiguration(cfg)).To(BeNil())
		admin := User{}
		Expect(db.Where("email = ?", cfg.ProtectedAccountEmail).First(&admin).Error).To(BeNil())
		Expect(admin.Secret).To(Equal("custom-digest"))
	})
}
