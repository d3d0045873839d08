package account

import (
	"net/http"

	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathRoles       = "/v1/roles"
	PathPermissions = "/v1/permissions"
)

func RegisterRolesRestAPI(r *gin.Engine, m *AuthorityManage, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRoles, middleWares...)

	handler := &rolesHandler{authorityManage: m}
	g.POST("", handler.handleCreate)
	g.GET("", handler.handleQuery)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.DELETE(":id", handler.handleDelete)
}

func RegisterPermissionsRestAPI(r *gin.Engine, m *AuthorityManage, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathPermissions, middleWares...)

	handler := &permissionsHandler{authorityManage: m}
	g.POST("", handler.handleCreate)
	g.GET("", handler.handleQuery)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.DELETE(":id", handler.handleDelete)
}

type rolesHandler struct {
	authorityManage *AuthorityManage
}

func (h *rolesHandler) handleCreate(c *gin.Context) {
	creation := authority.RoleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	role, err := h.authorityManage.CreateRole(c.Request.Context(), &creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, role)
}

func (h *rolesHandler) handleQuery(c *gin.Context) {
	roles, err := h.authorityManage.QueryRoles(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, roles)
}

func (h *rolesHandler) handleDetail(c *gin.Context) {
	detail, err := h.authorityManage.DetailRole(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *rolesHandler) handleUpdate(c *gin.Context) {
	updating := authority.RoleUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.authorityManage.UpdateRole(c.Request.Context(), parseIdParam(c), &updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *rolesHandler) handleDelete(c *gin.Context) {
	if err := h.authorityManage.DeleteRole(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

type permissionsHandler struct {
	authorityManage *AuthorityManage
}

func (h *permissionsHandler) handleCreate(c *gin.Context) {
	creation := authority.PermissionCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	perm, err := h.authorityManage.CreatePermission(c.Request.Context(), &creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, perm)
}

func (h *permissionsHandler) handleQuery(c *gin.Context) {
	perms, err := h.authorityManage.QueryPermissions(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, perms)
}

func (h *permissionsHandler) handleDetail(c *gin.Context) {
	perm, err := h.authorityManage.DetailPermission(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, perm)
}

func (h *permissionsHandler) handleUpdate(c *gin.Context) {
	updating := authority.PermissionUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.authorityManage.UpdatePermission(c.Request.Context(), parseIdParam(c), &updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *permissionsHandler) handleDelete(c *gin.Context) {
	if err := h.authorityManage.DeletePermission(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
