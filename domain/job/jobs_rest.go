package job

import (
	"net/http"

	"jobboard/bizerror"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathJobs = "/v1/jobs"

func RegisterJobsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathJobs, middleWares...)
	g.POST("", handleCreateJob)
	g.GET("", handleQueryJobs)
	g.GET(":id", handleDetailJob)
	g.PUT(":id", handleUpdateJob)
	g.DELETE(":id", handleDeleteJob)
}

func handleCreateJob(c *gin.Context) {
	creation := JobCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateJobFunc(c.Request.Context(), creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleQueryJobs(c *gin.Context) {
	query := JobQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := QueryJobsFunc(c.Request.Context(), query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleDetailJob(c *gin.Context) {
	record, err := DetailJobFunc(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateJob(c *gin.Context) {
	updating := JobUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateJobFunc(c.Request.Context(), parseIdParam(c), updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDeleteJob(c *gin.Context) {
	if err := DeleteJobFunc(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
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
