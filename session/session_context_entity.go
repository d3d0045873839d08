package session

import (
	"time"

	"jobboard/authority"
	"jobboard/common"

	"github.com/fundwit/go-commons/types"
)

type Identity struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
}

// Context is the per-request security context built from a verified access
// token. Perms is the grant snapshot resolved at token issuance time:
// permission changes take effect at the next login or refresh, not on
// in-flight tokens.
type Context struct {
	Token    string            `json:"token"`
	Identity Identity          `json:"identity"`
	Perms    authority.Grants  `json:"perms"`

	SigningTime time.Time `json:"-"`
}

func (c *Context) Actor() common.Actor {
	return common.Actor{ID: c.Identity.ID, Email: c.Identity.Email}
}
