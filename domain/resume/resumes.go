package resume

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

const (
	StatusPending   = "PENDING"
	StatusReviewing = "REVIEWING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

type Resume struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Email  string   `json:"email"`
	UserID types.ID `json:"userId"`
	URL    string   `json:"url"`
	Status string   `json:"status"`

	CompanyID types.ID `json:"companyId"`
	JobID     types.ID `json:"jobId"`

	common.AuditFields
}

// ResumeStatusLog records each status change, append-only.
type ResumeStatusLog struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	ResumeID types.ID `json:"resumeId" gorm:"index:idx_resume_status_log"`
	Status   string   `json:"status"`

	UpdaterID    types.ID        `json:"updaterId"`
	UpdaterEmail string          `json:"updaterEmail"`
	UpdateTime   types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ResumeDetail struct {
	Resume
	History []ResumeStatusLog `json:"history"`
}

type ResumeCreation struct {
	URL       string   `json:"url" binding:"required,url,lte=512"`
	CompanyID types.ID `json:"companyId" binding:"required"`
	JobID     types.ID `json:"jobId" binding:"required"`
}

type ResumeStatusUpdating struct {
	Status string `json:"status" binding:"required,oneof=PENDING REVIEWING APPROVED REJECTED"`
}

var (
	resumeIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateResumeFunc       = CreateResume
	QueryResumesFunc       = QueryResumes
	QueryResumesByUserFunc = QueryResumesByUser
	DetailResumeFunc       = DetailResume
	UpdateResumeStatusFunc = UpdateResumeStatus
	DeleteResumeFunc       = DeleteResume
)

// CreateResume files the calling principal's resume against a job; every
// resume starts in PENDING.
func CreateResume(ctx context.Context, c ResumeCreation, sec *session.Context) (*Resume, error) {
	r := Resume{ID: idgen.NextID(resumeIdWorker), Email: sec.Identity.Email, UserID: sec.Identity.ID,
		URL: c.URL, Status: StatusPending, CompanyID: c.CompanyID, JobID: c.JobID}
	r.StampCreator(sec.Actor())

	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		return appendStatusLog(tx, r.ID, StatusPending, sec)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func QueryResumes(ctx context.Context) ([]Resume, error) {
	resumes := []Resume{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("deleted = ?", false).Order("id ASC").Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

func QueryResumesByUser(ctx context.Context, sec *session.Context) ([]Resume, error) {
	resumes := []Resume{}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	if err := db.Where("user_id = ? AND deleted = ?", sec.Identity.ID, false).
		Order("id ASC").Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

func DetailResume(ctx context.Context, id types.ID) (*ResumeDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	r := Resume{}
	if err := db.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
		return nil, err
	}
	history := []ResumeStatusLog{}
	if err := db.Where("resume_id = ?", id).Order("id ASC").Find(&history).Error; err != nil {
		return nil, err
	}
	return &ResumeDetail{Resume: r, History: history}, nil
}

func UpdateResumeStatus(ctx context.Context, id types.ID, u ResumeStatusUpdating, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Resume{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.Status = u.Status
		r.StampUpdater(sec.Actor())
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		return appendStatusLog(tx, id, u.Status, sec)
	})
}

func DeleteResume(ctx context.Context, id types.ID, sec *session.Context) error {
	return persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		r := Resume{}
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&r).Error; err != nil {
			return err
		}
		r.StampDeleter(sec.Actor())
		if err := tx.Model(&Resume{}).Where("id = ?", id).Updates(map[string]interface{}{
			"deleter_id": r.DeleterID, "deleter_email": r.DeleterEmail, "delete_time": r.DeleteTime,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&Resume{}).Where("id = ?", id).Update("deleted", true).Error
	})
}

func appendStatusLog(tx *gorm.DB, resumeID types.ID, status string, sec *session.Context) error {
	log := ResumeStatusLog{ID: idgen.NextID(resumeIdWorker), ResumeID: resumeID, Status: status,
		UpdaterID: sec.Identity.ID, UpdaterEmail: sec.Identity.Email, UpdateTime: types.CurrentTimestamp()}
	return tx.Create(&log).Error
}
