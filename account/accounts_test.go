package account

import (
	"context"
	"testing"

	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/persistence"
	"jobboard/session"
	"jobboard/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func accountsTestSetup(t *testing.T) (*testinfra.TestDatabase, *AccountManage) {
	RegisterTestingT(t)
	testDatabase := testinfra.StartSqliteTestDatabase("accounts")
	persistence.ActiveDataSourceManager = testDatabase.DS
	err := testDatabase.DS.GormDB(context.Background()).
		AutoMigrate(&User{}, &authority.Role{}, &authority.Permission{}, &authority.RolePermissionBinding{}).Error
	Expect(err).To(BeNil())

	cfg := &session.AuthConfig{
		AccessSecret: "access-secret", RefreshSecret: "refresh-secret",
		ProtectedRoleName: "SUPER_ADMIN", ProtectedAccountEmail: "admin@jobboard.local",
		DefaultRoleName: "NORMAL_USER",
	}
	return testDatabase, NewAccountManage(cfg)
}

func TestRegisterUser(t *testing.T) {
	t.Run("should register user with the default role and a hashed secret", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		Expect(db.Create(&authority.Role{ID: 10, Name: "NORMAL_USER", Active: true}).Error).To(BeNil())

		info, err := m.RegisterUser(context.Background(),
			&UserRegistration{Name: "ann", Email: "ann@test.com", Password: "abc123"})
		Expect(err).To(BeNil())
		Expect(info.ID).ToNot(BeZero())
		Expect(info.Name).To(Equal("ann"))
		Expect(info.Email).To(Equal("ann@test.com"))
		Expect(info.RoleID).To(Equal(types.ID(10)))
		Expect(info.CreateTime.Time().IsZero()).To(BeFalse())

		user := User{}
		Expect(db.Where("id = ?", info.ID).First(&user).Error).To(BeNil())
		Expect(user.Secret).ToNot(Equal("abc123"))
		Expect(VerifyPassword("abc123", user.Secret)).To(BeTrue())
	})

	t.Run("should reject duplicate email among non-deleted users", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		Expect(db.Create(&authority.Role{ID: 10, Name: "NORMAL_USER", Active: true}).Error).To(BeNil())

		_, err := m.RegisterUser(context.Background(),
			&UserRegistration{Name: "ann", Email: "ann@test.com", Password: "abc123"})
		Expect(err).To(BeNil())

		_, err = m.RegisterUser(context.Background(),
			&UserRegistration{Name: "ann2", Email: "ann@test.com", Password: "abc123"})
		Expect(err).To(Equal(bizerror.ErrEmailTaken))
	})

	t.Run("should allow re-registering an email held only by a deleted user", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		Expect(db.Create(&authority.Role{ID: 10, Name: "NORMAL_USER", Active: true}).Error).To(BeNil())

		info, err := m.RegisterUser(context.Background(),
			&UserRegistration{Name: "ann", Email: "ann@test.com", Password: "abc123"})
		Expect(err).To(BeNil())
		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		Expect(m.DeleteUser(context.Background(), info.ID, sec)).To(BeNil())

		_, err = m.RegisterUser(context.Background(),
			&UserRegistration{Name: "ann again", Email: "ann@test.com", Password: "abc123"})
		Expect(err).To(BeNil())
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("should create user with the given role and the creator stamped", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"},
			RoleID:           20, CompanyID: 30, CompanyName: "acme",
		}, sec)
		Expect(err).To(BeNil())
		Expect(info.RoleID).To(Equal(types.ID(20)))
		Expect(info.CompanyID).To(Equal(types.ID(30)))
		Expect(info.CompanyName).To(Equal("acme"))

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		user := User{}
		Expect(db.Where("id = ?", info.ID).First(&user).Error).To(BeNil())
		Expect(user.CreatorID).To(Equal(types.ID(500)))
		Expect(user.CreatorEmail).To(Equal("ops@test.com"))
	})
}

func TestQueryAndDetailUsers(t *testing.T) {
	t.Run("should exclude deleted users and never expose secrets", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		kept, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())
		gone, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "eve", Email: "eve@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())
		Expect(m.DeleteUser(context.Background(), gone.ID, sec)).To(BeNil())

		infos, err := m.QueryUsers(context.Background())
		Expect(err).To(BeNil())
		Expect(len(infos)).To(Equal(1))
		Expect(infos[0].ID).To(Equal(kept.ID))

		_, err = m.DetailUser(context.Background(), gone.ID)
		Expect(err).To(Equal(gorm.ErrRecordNotFound))
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("should update fields and stamp the updater", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		err = m.UpdateUser(context.Background(), info.ID,
			&UserUpdating{Name: "bobby", Email: "bobby@test.com", RoleID: 21}, sec)
		Expect(err).To(BeNil())

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		user := User{}
		Expect(db.Where("id = ?", info.ID).First(&user).Error).To(BeNil())
		Expect(user.Name).To(Equal("bobby"))
		Expect(user.Email).To(Equal("bobby@test.com"))
		Expect(user.RoleID).To(Equal(types.ID(21)))
		Expect(user.UpdaterID).To(Equal(types.ID(500)))
		Expect(user.UpdateTime).ToNot(BeNil())
	})

	t.Run("should reject changing email to one already taken", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		_, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())
		other, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "eve", Email: "eve@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		err = m.UpdateUser(context.Background(), other.ID,
			&UserUpdating{Name: "eve", Email: "bob@test.com", RoleID: 20}, sec)
		Expect(err).To(Equal(bizerror.ErrEmailTaken))

		// keeping one's own email is not a conflict
		err = m.UpdateUser(context.Background(), other.ID,
			&UserUpdating{Name: "eve II", Email: "eve@test.com", RoleID: 20}, sec)
		Expect(err).To(BeNil())
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("should stamp the deleter and set the flag in one go", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		Expect(m.DeleteUser(context.Background(), info.ID, sec)).To(BeNil())

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		user := User{}
		Expect(db.Where("id = ?", info.ID).First(&user).Error).To(BeNil())
		Expect(user.Deleted).To(BeTrue())
		Expect(user.DeleterID).To(Equal(types.ID(500)))
		Expect(user.DeleterEmail).To(Equal("ops@test.com"))
		Expect(user.DeleteTime).ToNot(BeNil())

		// deleting again finds nothing
		Expect(m.DeleteUser(context.Background(), info.ID, sec)).To(Equal(gorm.ErrRecordNotFound))
	})

	t.Run("should refuse to delete the protected account", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "admin", Email: "admin@jobboard.local", Password: "abc123"},
			RoleID:           20}, sec)
		Expect(err).To(BeNil())

		Expect(m.DeleteUser(context.Background(), info.ID, sec)).To(Equal(bizerror.ErrProtectedAccount))

		db := persistence.ActiveDataSourceManager.GormDB(context.Background())
		user := User{}
		Expect(db.Where("id = ?", info.ID).First(&user).Error).To(BeNil())
		Expect(user.Deleted).To(BeFalse())
	})
}

func TestUserRefreshTokens(t *testing.T) {
	t.Run("should store, find and clear the refresh token", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		Expect(m.UpdateUserRefreshToken(context.Background(), info.ID, "token-1")).To(BeNil())
		user, err := m.FindUserByRefreshToken(context.Background(), "token-1")
		Expect(err).To(BeNil())
		Expect(user.ID).To(Equal(info.ID))

		// a newer token supersedes, the old session is gone
		Expect(m.UpdateUserRefreshToken(context.Background(), info.ID, "token-2")).To(BeNil())
		_, err = m.FindUserByRefreshToken(context.Background(), "token-1")
		Expect(err).To(Equal(gorm.ErrRecordNotFound))

		Expect(m.ClearUserRefreshToken(context.Background(), info.ID)).To(BeNil())
		_, err = m.FindUserByRefreshToken(context.Background(), "token-2")
		Expect(err).To(Equal(gorm.ErrRecordNotFound))
	})

	t.Run("should never match an empty refresh token", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		_, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		// logged-out users hold an empty token; "" must not resolve to them
		_, err = m.FindUserByRefreshToken(context.Background(), "")
		Expect(err).To(Equal(gorm.ErrRecordNotFound))
	})
}

func TestFindUserByEmail(t *testing.T) {
	t.Run("should find non-deleted user only", func(t *testing.T) {
		testDatabase, m := accountsTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		sec := testinfra.BuildSecCtx(500, "ops@test.com")
		info, err := m.CreateUser(context.Background(), &UserCreation{
			UserRegistration: UserRegistration{Name: "bob", Email: "bob@test.com", Password: "abc123"}, RoleID: 20}, sec)
		Expect(err).To(BeNil())

		user, err := m.FindUserByEmail(context.Background(), "bob@test.com")
		Expect(err).To(BeNil())
		Expect(user.ID).To(Equal(info.ID))

		Expect(m.DeleteUser(context.Background(), info.ID, sec)).To(BeNil())
		_, err = m.FindUserByEmail(context.Background(), "bob@test.com")
		Expect(err).To(Equal(gorm.ErrRecordNotFound))
	})
}
