package company

import (
	"net/http"

	"jobboard/bizerror"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathCompanies = "/v1/companies"

func RegisterCompaniesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathCompanies, middleWares...)
	g.POST("", handleCreateCompany)
	g.GET("", handleQueryCompanies)
	g.GET(":id", handleDetailCompany)
	g.PUT(":id", handleUpdateCompany)
	g.DELETE(":id", handleDeleteCompany)
}

func handleCreateCompany(c *gin.Context) {
	creation := CompanyCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateCompanyFunc(c.Request.Context(), creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleQueryCompanies(c *gin.Context) {
	records, err := QueryCompaniesFunc(c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleDetailCompany(c *gin.Context) {
	record, err := DetailCompanyFunc(c.Request.Context(), parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateCompany(c *gin.Context) {
	updating := CompanyUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateCompanyFunc(c.Request.Context(), parseIdParam(c), updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDeleteCompany(c *gin.Context) {
	if err := DeleteCompanyFunc(c.Request.Context(), parseIdParam(c), session.FindSecurityContext(c)); err != nil {
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
