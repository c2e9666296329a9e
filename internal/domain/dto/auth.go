package dto

import "slices"

// Token scopes understood by the API.
const (
	// ScopeLayoutsRead allows listing, fetching and rendering layouts.
	ScopeLayoutsRead = "layouts:read"
	// ScopeLayoutsWrite allows running searches and imports.
	ScopeLayoutsWrite = "layouts:write"
)

// Claims are the application claims carried by a bearer token.
type Claims struct {
	Subject string   `json:"sub"`
	Scopes  []string `json:"scopes,omitempty"`
}

// HasScope reports whether the claims grant scope. The wildcard scope "*"
// grants everything.
func (c *Claims) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Scopes, scope) || slices.Contains(c.Scopes, "*")
}
