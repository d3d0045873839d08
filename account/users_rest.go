package account

import (
	"net/http"

	"jobboard/bizerror"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathUsers = "/v1/users"

func RegisterUsersRestAPI(r *gin.Engine, m *AccountManage, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathUsers, middleWares...)

	handler := &usersHandler{accountManage: m}
	g.POST("", handler.handleCreate)
	g.GET("", handler.handleQuery)
	g.GET(":id", handler.handleDetail)
	g.PUT(":id", handler.handleUpdate)
	g.DELETE(":id", handler.handleDelete)
}

type usersHandler struct {
	accountManage *AccountManage
}

func (h *usersHandler) handleCreate(c *gin.Context) {
	creation := UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	info, err := h.accountManage.CreateUser(c.Request.Context(), &creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, info)
}

func (h *usersHandler) handleQuery(c *gin.Context) {
	infos, err := h.accountManage.QueryUsers(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, infos)
}

func (h *usersHandler) handleDetail(c *gin.Context) {
	info, err := h.accountManage.DetailUser(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, info)
}

func (h *usersHandler) handleUpdate(c *gin.Context) {
	updating := UserUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.accountManage.UpdateUser(c.Request.Context(), parseIdParam(c), &updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *usersHandler) handleDelete(c *gin.Context) {
	if err := h.accountManage.DeleteUser(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	return id
}
