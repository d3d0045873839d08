package common

import (
	"github.com/fundwit/go-commons/types"
)

// Actor identifies who performed an operation, captured at the time of action.
type Actor struct {
	ID    types.ID `json:"id"`
	Email string   `json:"email"`
}

// AuditFields is embedded into every persisted record. Soft delete is
// explicit: the Deleted flag is the single source of truth and every
// read path must filter on it; the deleter actor is stamped in the same
// transaction before the flag is set.
type AuditFields struct {
	CreatorID    types.ID        `json:"creatorId"`
	CreatorEmail string          `json:"creatorEmail"`
	CreateTime   types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`

	UpdaterID    types.ID         `json:"updaterId"`
	UpdaterEmail string           `json:"updaterEmail"`
	UpdateTime   *types.Timestamp `json:"updateTime" sql:"type:DATETIME(6)"`

	DeleterID    types.ID         `json:"deleterId"`
	DeleterEmail string           `json:"deleterEmail"`
	DeleteTime   *types.Timestamp `json:"deleteTime" sql:"type:DATETIME(6)"`
	Deleted      bool             `json:"deleted"`
}

func (a *AuditFields) StampCreator(actor Actor) {
	a.CreatorID = actor.ID
	a.CreatorEmail = actor.Email
	a.CreateTime = types.CurrentTimestamp()
}

func (a *AuditFields) StampUpdater(actor Actor) {
	now := types.CurrentTimestamp()
	a.UpdaterID = actor.ID
	a.UpdaterEmail = actor.Email
	a.UpdateTime = &now
}

func (a *AuditFields) StampDeleter(actor Actor) {
	now := types.CurrentTimestamp()
	a.DeleterID = actor.ID
	a.DeleterEmail = actor.Email
	a.DeleteTime = &now
}
