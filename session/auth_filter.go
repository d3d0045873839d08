package session

import (
	"strings"
	"time"

	"jobboard/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// TokenCache memoizes verified access tokens until they expire. Entries are
// keyed by the exact token string, so a cache hit is equivalent to a fresh
// signature verification.
var TokenCache = cache.New(15*time.Minute, 1*time.Minute)

const authPathPrefix = "/v1/auth/"

// AuthFilter authenticates every request that is not marked public: it
// requires a valid bearer access token and injects the security context.
// Missing, malformed and expired tokens are all rejected uniformly.
func AuthFilter(issuer *TokenIssuer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if IsPublicRoute(ctx.Request.Method, ctx.FullPath()) {
			ctx.Next()
			return
		}

		token := extractBearerToken(ctx)
		if token == "" {
			panic(bizerror.ErrUnauthenticated)
		}

		if cached, found := TokenCache.Get(token); found {
			if secCtx, ok := cached.(*Context); ok {
				SaveSecurityContext(ctx, secCtx)
				ctx.Next()
				return
			}
		}

		claims, err := issuer.VerifyAccessToken(token)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx := &Context{
			Token:       token,
			Identity:    claims.SessionIdentity(),
			Perms:       claims.Perms,
			SigningTime: claims.IssuedAt.Time,
		}
		TokenCache.Set(token, secCtx, time.Until(claims.ExpiresAt.Time))
		SaveSecurityContext(ctx, secCtx)
		ctx.Next()
	}
}

// AuthorizeFilter runs the permission matcher for authenticated requests.
// Routes under the auth group require identity only; everything else must
// be covered by the grant snapshot carried in the access token.
func AuthorizeFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if IsPublicRoute(ctx.Request.Method, ctx.FullPath()) {
			ctx.Next()
			return
		}
		secCtx := FindSecurityContext(ctx)
		if secCtx == nil {
			panic(bizerror.ErrUnauthenticated)
		}
		if strings.HasPrefix(ctx.Request.URL.Path, authPathPrefix) {
			ctx.Next()
			return
		}
		if !secCtx.Perms.Authorize(ctx.Request.Method, ctx.Request.URL.Path) {
			panic(bizerror.ErrForbidden)
		}
		ctx.Next()
	}
}

func extractBearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
