package resume

import (
	"net/http"

	"jobboard/bizerror"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathResumes = "/v1/resumes"

func RegisterResumesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathResumes, middleWares...)
	g.POST("", handleCreateResume)
	g.GET("", handleQueryResumes)
	g.POST("by-user", handleQueryResumesByUser)
	g.GET(":id", handleDetailResume)
	g.PUT(":id", handleUpdateResumeStatus)
	g.DELETE(":id", handleDeleteResume)
}

func handleCreateResume(c *gin.Context) {
	creation := ResumeCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateResumeFunc(c.Request.Context(), creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleQueryResumes(c *gin.Context) {
	records, err := QueryResumesFunc(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleQueryResumesByUser(c *gin.Context) {
	records, err := QueryResumesByUserFunc(c.Request.Context(), session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleDetailResume(c *gin.Context) {
	record, err := DetailResumeFunc(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateResumeStatus(c *gin.Context) {
	updating := ResumeStatusUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateResumeStatusFunc(c.Request.Context(), parseIdParam(c), updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDeleteResume(c *gin.Context) {
	if err := DeleteResumeFunc(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
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
