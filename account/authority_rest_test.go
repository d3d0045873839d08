package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobboard/account"
	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/persistence"
	"jobboard/session"
	"jobboard/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func authorityRestTestSetup(t *testing.T) (*testinfra.TestDatabase, *gin.Engine) {
	RegisterTestingT(t)
	testDatabase := testinfra.StartSqliteTestDatabase("authorityrest")
	persistence.ActiveDataSourceManager = testDatabase.DS
	err := testDatabase.DS.GormDB(context.Background()).
		AutoMigrate(&authority.Role{}, &authority.Permission{}, &authority.RolePermissionBinding{}).Error
	Expect(err).To(BeNil())

	cfg := &session.AuthConfig{
		AccessSecret: "access-secret", RefreshSecret: "refresh-secret",
		ProtectedRoleName: "SUPER_ADMIN", ProtectedAccountEmail: "admin@jobboard.local",
		DefaultRoleName: "NORMAL_USER",
	}
	m := account.NewAuthorityManage(cfg)
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	secInjector := func(c *gin.Context) {
		session.SaveSecurityContext(c, testinfra.BuildSecCtx(999, "ops@test.com"))
	}
	account.RegisterRolesRestAPI(router, m, secInjector)
	account.RegisterPermissionsRestAPI(router, m, secInjector)
	return testDatabase, router
}

func TestRolesRestAPI(t *testing.T) {
	t.Run("should surface a duplicated role name as method not allowed", func(t *testing.T) {
		testDatabase, router := authorityRestTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		req := httptest.NewRequest(http.MethodPost, account.PathRoles,
			strings.NewReader(`{"name":"hr","active":true}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		created := authority.Role{}
		Expect(json.Unmarshal([]byte(body), &created)).To(BeNil())
		Expect(created.Name).To(Equal("HR"))

		req = httptest.NewRequest(http.MethodPost, account.PathRoles,
			strings.NewReader(`{"name":"HR","active":true}`))
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusMethodNotAllowed))
		Expect(body).To(MatchJSON(`{"code":"authority.role_name_existed", "message":"role name already existed", "data":null}`))
	})

	t.Run("should surface the protected role as a bad request", func(t *testing.T) {
		testDatabase, router := authorityRestTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		req := httptest.NewRequest(http.MethodPost, account.PathRoles,
			strings.NewReader(`{"name":"super_admin","active":true}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		created := authority.Role{}
		Expect(json.Unmarshal([]byte(body), &created)).To(BeNil())

		req = httptest.NewRequest(http.MethodDelete, account.PathRoles+"/"+created.ID.String(), nil)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"authority.protected_role", "message":"role is protected", "data":null}`))
	})
}

func TestPermissionsRestAPI(t *testing.T) {
	t.Run("should surface a duplicated permission pair as method not allowed", func(t *testing.T) {
		testDatabase, router := authorityRestTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		reqBody := `{"name":"query jobs","apiPath":"/v1/jobs","method":"get","module":"JOBS"}`
		req := httptest.NewRequest(http.MethodPost, account.PathPermissions, strings.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		created := authority.Permission{}
		Expect(json.Unmarshal([]byte(body), &created)).To(BeNil())
		Expect(created.Method).To(Equal("GET"))

		req = httptest.NewRequest(http.MethodPost, account.PathPermissions, strings.NewReader(reqBody))
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusMethodNotAllowed))
		Expect(body).To(MatchJSON(`{"code":"authority.permission_existed", "message":"permission already existed", "data":null}`))
	})

	t.Run("should be able to validate parameters", func(t *testing.T) {
		testDatabase, router := authorityRestTestSetup(t)
		defer testinfra.StopSqliteTestDatabase(testDatabase)

		req := httptest.NewRequest(http.MethodPost, account.PathPermissions, strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring("common.bad_param"))
	})
}
