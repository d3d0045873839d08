package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAPIPath(t *testing.T) {
	t.Run("literal segments must match exactly", func(t *testing.T) {
		assert.True(t, MatchAPIPath("/v1/jobs", "/v1/jobs"))
		assert.False(t, MatchAPIPath("/v1/jobs", "/v1/companies"))
		assert.False(t, MatchAPIPath("/v1/jobs", "/v2/jobs"))
	})

	t.Run("parameter segment matches any literal segment at the same position", func(t *testing.T) {
		assert.True(t, MatchAPIPath("/v1/jobs/:id", "/v1/jobs/123"))
		assert.True(t, MatchAPIPath("/v1/jobs/:id", "/v1/jobs/abc-def"))
		assert.True(t, MatchAPIPath("/v1/roles/:id/permissions", "/v1/roles/42/permissions"))
	})

	t.Run("segment counts must match exactly", func(t *testing.T) {
		assert.False(t, MatchAPIPath("/v1/jobs/:id", "/v1/jobs"))
		assert.False(t, MatchAPIPath("/v1/jobs/:id", "/v1/jobs/123/apply"))
		assert.False(t, MatchAPIPath("/v1/jobs", "/v1/jobs/123"))
	})

	t.Run("trailing slashes are not significant", func(t *testing.T) {
		assert.True(t, MatchAPIPath("/v1/jobs/", "/v1/jobs"))
		assert.True(t, MatchAPIPath("/v1/jobs/:id", "/v1/jobs/123/"))
	})

	t.Run("root path", func(t *testing.T) {
		assert.True(t, MatchAPIPath("/", "/"))
		assert.False(t, MatchAPIPath("/", "/v1"))
	})
}

func TestGrantsAuthorize(t *testing.T) {
	grants := Grants{
		{Method: "GET", APIPath: "/v1/jobs/:id"},
		{Method: "POST", APIPath: "/v1/resumes"},
	}

	t.Run("matching method and path is authorized", func(t *testing.T) {
		assert.True(t, grants.Authorize("GET", "/v1/jobs/123"))
		assert.True(t, grants.Authorize("POST", "/v1/resumes"))
	})

	t.Run("method comparison is case-insensitive", func(t *testing.T) {
		assert.True(t, grants.Authorize("get", "/v1/jobs/123"))
	})

	t.Run("method mismatch is denied", func(t *testing.T) {
		assert.False(t, grants.Authorize("POST", "/v1/jobs/123"))
	})

	t.Run("segment count mismatch is denied", func(t *testing.T) {
		assert.False(t, grants.Authorize("GET", "/v1/jobs/123/apply"))
	})

	t.Run("empty grant set denies everything", func(t *testing.T) {
		assert.False(t, Grants{}.Authorize("GET", "/v1/jobs/123"))
		assert.False(t, Grants(nil).Authorize("GET", "/"))
	})
}
