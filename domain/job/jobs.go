package job

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"

	"jobboard/common"
	"jobboard/idgen"
	"jobboard/persistence"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// SkillList is stored as a JSON column.
type SkillList []string

func (s SkillList) Value() (driver.Value, error) {
	if s == nil {
		s = SkillList{}
	}
	return json.Marshal(s)
}

func (s *SkillList) Scan(src interface{}) error {
	if src == nil {
		*s = SkillList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return errors.New("unsupported source type for SkillList")
}

type Job struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name   string    `json:"name"`
	Skills SkillList `json:"skills" sql:"type:TEXT"`

	CompanyID   types.ID `json:"companyId"`
	CompanyName string   `json:"companyName"`

	Location    string `json:"location"`
	Salary      int    `json:"salary"`
	Quantity    int    `json:"quantity"`
	Level       string `json:"level"`
	Description string `json:"description" sql:"type:TEXT"`

	StartDate types.Timestamp `json:"startDate" sql:"type:DATETIME(6)"`
	EndDate   types.Timestamp `json:"endDate" sql:"type:DATETIME(6)"`
	Active    bool            `json:"active"`

	common.AuditFields
}

type JobCreation struct {
	Name   string    `json:"name" binding:"required,lte=128"`
	Skills SkillList `json:"skills" binding:"required"`

	CompanyID   types.ID `json:"companyId" binding:"required"`
	CompanyName string   `json:"companyName" binding:"omitempty,lte=128"`

	Location    string `json:"location" binding:"required,lte=128"`
	Salary      int    `json:"salary" binding:"required,gte=0"`
	Quantity    int    `json:"quantity" binding:"required,gte=1"`
	Level       string `json:"level" binding:"required,lte=32"`
	Description string `json:"description" binding:"omitempty,lte=4096"`

	StartDate types.Timestamp `json:"startDate" binding:"required"`
	EndDate   types.Timestamp `json:"endDate" binding:"required"`
	Active    bool            `json:"active"`
}

type JobUpdating = JobCreation

type JobQuery struct {
	CompanyID types.ID `json:"companyId" form:"companyId"`
}

var (
	jobIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateJobFunc = CreateJob
	QueryJobsFunc = QueryJobs
	DetailJobFunc = DetailJob
	UpdateJobFunc = UpdateJob
	DeleteJobFunc = DeleteJob
)

func CreateJob(ctx context.Context, c JobCreation, sec *session.Context) (*Job, error) {
	r := Job{ID: idgen.NextID(jobIdWorker), Name: c.Name, Skills: c.Skills,
		CompanyID: c.CompanyID, CompanyName: c.CompanyName,
		Location: c.Location, Salary: c.Salary, Quantity: c.Quantity, Level: c.Level,
		Description: c.Description, StartDate: c.StartDate, EndDate: c.EndDate, Active: c.Active}
	r.StampCreator(sec.Actor())
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func QueryJobs(ctx context.Context, q JobQuery) ([]Job, error) {
	jobs := []Job{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx).Where("deleted = ?", false)
	if q.CompanyID != 0 {
		db = db.Where("company_id = ?", q.CompanyID)
	}
	if err := db.Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func DetailJob(ctx context.Context, id types.ID) (*Job, error) {
	r := Job{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateJob(ctx context.Context, id types.ID, u JobUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Job{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.Name, r.Skills = u.Name, u.Skills
		r.CompanyID, r.CompanyName = u.CompanyID, u.CompanyName
		r.Location, r.Salary, r.Quantity, r.Level, r.Description = u.Location, u.Salary, u.Quantity, u.Level, u.Description
		r.StartDate, r.EndDate, r.Active = u.StartDate, u.EndDate, u.Active
		r.StampUpdater(sec.Actor())
		return tx.Save(&r).Error
	})
}

func DeleteJob(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Job{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.StampDeleter(sec.Actor())
		if err := tx.Model(&Job{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": r.DeleterID, "deleter_email": r.DeleterEmail, "delete_time": r.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&Job{}).Where("id = ?", id).Update("deleted", true).Error
	})
}
