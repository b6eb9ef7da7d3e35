package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/JMURv/player-pairing/internal/config"
)

type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleViewer     Role = "Viewer"
)

// Identity is the authenticated caller. EffectiveOrgID is the organization
// the caller currently acts for, which differs from OrgID in view-as mode.
type Identity struct {
	UserID         string `json:"user_id"`
	OrgID          string `json:"org_id"`
	EffectiveOrgID string `json:"effective_org_id"`
	Role           Role   `json:"role"`
}

func (i Identity) IsSuperAdmin() bool {
	return i.Role == RoleSuperAdmin
}

// CanActFor reports whether the identity may operate on resources of org.
func (i Identity) CanActFor(org string) bool {
	if i.IsSuperAdmin() {
		return true
	}
	return org != "" && org == i.EffectiveOrgID
}

// Scope is the organization reads are limited to. It is empty for a super
// admin acting as themselves, who sees every organization.
func (i Identity) Scope() string {
	if i.IsSuperAdmin() && i.EffectiveOrgID == i.OrgID {
		return ""
	}
	return i.EffectiveOrgID
}

// Sees reports whether a resource owned by org is visible to the identity.
func (i Identity) Sees(org string) bool {
	scope := i.Scope()
	return scope == "" || scope == org
}

type Core interface {
	Authorize(ctx context.Context, token string) (Identity, error)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, config.IdentityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(config.IdentityKey).(Identity)
	return id, ok
}

// TokenFromRequest looks for a bearer token in the Authorization header,
// then the access cookie, then the token query parameter.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}

	if c, err := r.Cookie(config.AccessCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	return r.URL.Query().Get("token")
}
