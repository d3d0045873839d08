package session

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const KeySecCtx = "SecCtx"

func FindSecurityContext(ctx *gin.Context) *Context {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Context)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

func SaveSecurityContext(ctx *gin.Context, secCtx *Context) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// publicRoutes is populated during route registration and read-only
// afterwards.
var publicRoutes = map[string]bool{}

// MarkPublicRoute exempts a declared route (method + gin path template)
// from authentication and authorization.
func MarkPublicRoute(method, pathTemplate string) {
	publicRoutes[strings.ToUpper(method)+" "+pathTemplate] = true
}

func IsPublicRoute(method, pathTemplate string) bool {
	return publicRoutes[strings.ToUpper(method)+" "+pathTemplate]
}
