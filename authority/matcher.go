package authority

import "strings"

// Grant is one authorized (HTTP method, api path template) pair, the unit
// the permission engine works with. Access tokens carry a snapshot of the
// principal's grants resolved at issuance time.
type Grant struct {
	Method  string `json:"method"`
	APIPath string `json:"apiPath"`
}

type Grants []Grant

// Authorize reports whether the requested method and literal path are
// covered by any grant. Linear scan, first match wins: grant sets per role
// stay small (tens, not thousands).
func (g Grants) Authorize(method, path string) bool {
	for _, grant := range g {
		if strings.EqualFold(grant.Method, method) && MatchAPIPath(grant.APIPath, path) {
			return true
		}
	}
	return false
}

// MatchAPIPath matches a literal request path against a path template.
// Segment counts must be equal; a template segment prefixed with ":" matches
// any single literal segment, every other segment must match exactly.
func MatchAPIPath(template, path string) bool {
	templateSegments := splitPath(template)
	pathSegments := splitPath(path)
	if len(templateSegments) != len(pathSegments) {
		return false
	}
	for i, seg := range templateSegments {
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != pathSegments[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
