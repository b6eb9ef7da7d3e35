package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/JMURv/player-pairing/internal/auth"
	"github.com/JMURv/player-pairing/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type Core struct {
	secret []byte
	issuer string
}

type ViewAs struct {
	OrganizationID string `json:"organization_id"`
}

type Claims struct {
	UID            string  `json:"uid"`
	OrganizationID string  `json:"organization_id"`
	AppRole        string  `json:"app_role,omitempty"`
	ViewAs         *ViewAs `json:"view_as,omitempty"`
	jwt.RegisteredClaims
}

func New(conf config.JWTConfig) *Core {
	return &Core{secret: []byte(conf.Secret), issuer: conf.Issuer}
}

// Identity converts claims into the caller identity. A missing role
// defaults to Viewer; view_as overrides the effective organization.
func (c Claims) Identity() auth.Identity {
	role := auth.Role(c.AppRole)
	if role == "" {
		role = auth.RoleViewer
	}

	eff := c.OrganizationID
	if c.ViewAs != nil && c.ViewAs.OrganizationID != "" {
		eff = c.ViewAs.OrganizationID
	}

	return auth.Identity{
		UserID:         c.UID,
		OrgID:          c.OrganizationID,
		EffectiveOrgID: eff,
		Role:           role,
	}
}

func (c *Core) Authorize(ctx context.Context, token string) (auth.Identity, error) {
	const op = "auth.Authorize.jwt"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if token == "" {
		return auth.Identity{}, auth.ErrMissingToken
	}

	claims, err := c.ParseClaims(ctx, token)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}

	id := claims.Identity()
	if id.EffectiveOrgID == "" && !id.IsSuperAdmin() {
		return auth.Identity{}, fmt.Errorf("%w: %w", auth.ErrInvalidToken, ErrMissingOrganization)
	}

	return id, nil
}

func (c *Core) NewToken(ctx context.Context, claims Claims, d time.Duration) (string, error) {
	const op = "auth.NewToken.jwt"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    c.issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(c.secret)
	if err != nil {
		zap.L().Error(
			ErrWhileCreatingToken.Error(),
			zap.String("op", op),
			zap.Error(err),
		)

		return "", ErrWhileCreatingToken
	}

	return signed, nil
}

func (c *Core) ParseClaims(ctx context.Context, tokenStr string) (Claims, error) {
	const op = "auth.ParseClaims.jwt"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	claims := Claims{}
	token, err := jwt.ParseWithClaims(
		tokenStr, &claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrUnexpectedSignMethod
			}

			return c.secret, nil
		},
	)
	if err != nil {
		zap.L().Debug(
			"Failed to parse claims",
			zap.String("op", op),
			zap.Error(err),
		)

		return claims, err
	}

	if !token.Valid {
		return claims, auth.ErrInvalidToken
	}

	return claims, nil
}
