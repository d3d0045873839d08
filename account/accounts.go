package account

import (
	"context"
	"errors"

	"jobboard/bizerror"
	"jobboard/idgen"
	"jobboard/persistence"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

type AccountManage struct {
	cfg      *session.AuthConfig
	idWorker *sonyflake.Sonyflake
}

func NewAccountManage(cfg *session.AuthConfig) *AccountManage {
	return &AccountManage{cfg: cfg, idWorker: sonyflake.NewSonyflake(sonyflake.Settings{})}
}

// RegisterUser is the self-service path: the new user always gets the
// configured default role.
func (m *AccountManage) RegisterUser(ctx context.Context, r *UserRegistration) (*UserInfo, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	defaultRole, err := findRoleByName(db, m.cfg.DefaultRoleName)
	if err != nil {
		return nil, err
	}

	secret, err := HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	user := User{ID: idgen.NextID(m.idWorker), Name: r.Name, Email: r.Email, Secret: secret,
		Age: r.Age, Address: r.Address, Gender: r.Gender, RoleID: defaultRole}
	user.CreateTime = types.CurrentTimestamp()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkEmailFree(tx, r.Email, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

func (m *AccountManage) CreateUser(ctx context.Context, c *UserCreation, sec *session.Context) (*UserInfo, error) {
	secret, err := HashPassword(c.Password)
	if err != nil {
		return nil, err
	}

	user := User{ID: idgen.NextID(m.idWorker), Name: c.Name, Email: c.Email, Secret: secret,
		Age: c.Age, Address: c.Address, Gender: c.Gender,
		RoleID: c.RoleID, CompanyID: c.CompanyID, CompanyName: c.CompanyName}
	user.StampCreator(sec.Actor())

	err = persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEmailFree(tx, c.Email, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

func (m *AccountManage) QueryUsers(ctx context.Context) ([]UserInfo, error) {
	var users []User
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Model(&User{}).Where("deleted = ?", false).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	infos := []UserInfo{}
	for _, u := range users {
		infos = append(infos, u.Info())
	}
	return infos, nil
}

func (m *AccountManage) DetailUser(ctx context.Context, id types.ID) (*UserInfo, error) {
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&user).Error; err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

func (m *AccountManage) UpdateUser(ctx context.Context, id types.ID, u *UserUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&user).Error; err != nil {
			return err
		}
		if user.Email != u.Email {
			if err := checkEmailFree(tx, u.Email, id); err != nil {
				return err
			}
		}

		user.Name, user.Email, user.Age, user.Address, user.Gender = u.Name, u.Email, u.Age, u.Address, u.Gender
		user.RoleID, user.CompanyID, user.CompanyName = u.RoleID, u.CompanyID, u.CompanyName
		user.StampUpdater(sec.Actor())
		return tx.Save(&user).Error
	})
}

// DeleteUser soft-deletes: the deleter actor is stamped and the flag set in
// the same transaction. The configured protected account is never deletable.
func (m *AccountManage) DeleteUser(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&user).Error; err != nil {
			return err
		}
		if user.Email == m.cfg.ProtectedAccountEmail {
			return bizerror.ErrProtectedAccount
		}
		user.StampDeleter(sec.Actor())
		if err := tx.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": user.DeleterID, "deleter_email": user.DeleterEmail, "delete_time": user.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", id).Update("deleted", true).Error
	})
}

// FindUserByEmail loads a non-deleted user by email for credential checks.
func (m *AccountManage) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("email = ? AND deleted = ?", email, false).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRefreshToken overwrites the stored refresh token. Concurrent
// refreshes race last-writer-wins; the losing session later fails with
// session_not_found and re-authenticates.
func (m *AccountManage) UpdateUserRefreshToken(ctx context.Context, id types.ID, refreshToken string) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	return db.Model(&User{}).Where("id = ? AND deleted = ?", id, false).
		Update("refresh_token", refreshToken).Error
}

func (m *AccountManage) FindUserByRefreshToken(ctx context.Context, refreshToken string) (*User, error) {
	if refreshToken == "" {
		return nil, gorm.ErrRecordNotFound
	}
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("refresh_token = ? AND deleted = ?", refreshToken, false).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *AccountManage) ClearUserRefreshToken(ctx context.Context, id types.ID) error {
	return m.UpdateUserRefreshToken(ctx, id, "")
}

func checkEmailFree(tx *gorm.DB, email string, selfID types.ID) error {
	existing := User{}
	err := tx.Where("email = ? AND deleted = ?", email, false).First(&existing).Error
	if err == nil {
		if existing.ID == selfID {
			return nil
		}
		return bizerror.ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
