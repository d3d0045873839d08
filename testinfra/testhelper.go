package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"time"

	"jobboard/authority"
	"jobboard/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest drives a request through the router and drains the body.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}

// BuildSecCtx builds a security context carrying the given grants.
func BuildSecCtx(uid types.ID, email string, grants ...authority.Grant) *session.Context {
	perms := authority.Grants{}
	perms = append(perms, grants...)
	return &session.Context{
		Token:       "test_token",
		Identity:    session.Identity{ID: uid, Name: "user " + uid.String(), Email: email},
		Perms:       perms,
		SigningTime: time.Now(),
	}
}
