package company

import (
	"context"

	"jobboard/common"
	"jobboard/idgen"
	"jobboard/persistence"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

type Company struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`

	common.AuditFields
}

type CompanyCreation struct {
	Name        string `json:"name" binding:"required,lte=128"`
	Address     string `json:"address" binding:"omitempty,lte=255"`
	Description string `json:"description" binding:"omitempty,lte=1024"`
}

type CompanyUpdating struct {
	Name        string `json:"name" binding:"required,lte=128"`
	Address     string `json:"address" binding:"omitempty,lte=255"`
	Description string `json:"description" binding:"omitempty,lte=1024"`
}

var (
	companyIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateCompanyFunc = CreateCompany
	QueryCompaniesFunc = QueryCompanies
	DetailCompanyFunc = DetailCompany
	UpdateCompanyFunc = UpdateCompany
	DeleteCompanyFunc = DeleteCompany
)

func CreateCompany(ctx context.Context, c CompanyCreation, sec *session.Context) (*Company, error) {
	r := Company{ID: idgen.NextID(companyIdWorker), Name: c.Name, Address: c.Address, Description: c.Description}
	r.StampCreator(sec.Actor())
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func QueryCompanies(ctx context.Context) ([]Company, error) {
	companies := []Company{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("deleted = ?", false).Order("id ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func DetailCompany(ctx context.Context, id types.ID) (*Company, error) {
	r := Company{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateCompany(ctx context.Context, id types.ID, u CompanyUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Company{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.Name, r.Address, r.Description = u.Name, u.Address, u.Description
		r.StampUpdater(sec.Actor())
		return tx.Save(&r).Error
	})
}

func DeleteCompany(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Company{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.StampDeleter(sec.Actor())
		if err := tx.Model(&Company{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": r.DeleterID, "deleter_email": r.DeleterEmail, "delete_time": r.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&Company{}).Where("id = ?", id).Update("deleted", true).Error
	})
}
