package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
)

// Claims are the actor claims minted by the identity provider.
type Claims struct {
	UserID     int64  `json:"user_id"`
	Role       string `json:"role"`
	DistrictID int64  `json:"district_id,omitempty"`
	VillageID  int64  `json:"village_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTService validates actor tokens. Issuing exists for local tooling and tests.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

func (s *JWTService) GenerateActorToken(actor domain.Actor, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:     int64(actor.UserID),
		Role:       string(actor.Role),
		DistrictID: int64(actor.DistrictID),
		VillageID:  int64(actor.VillageID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Actor converts validated claims into the caller identity.
func (c *Claims) Actor() (domain.Actor, error) {
	if c.UserID <= 0 {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "token has no user")
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Actor{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token has unknown role")
	}
	actor := domain.Actor{
		UserID:     domain.UserID(c.UserID),
		Role:       role,
		DistrictID: domain.DistrictID(c.DistrictID),
		VillageID:  domain.VillageID(c.VillageID),
	}
	if role == domain.RoleVillage && actor.VillageID == 0 {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "village operator token has no village")
	}
	if role == domain.RoleKecamatan && actor.DistrictID == 0 {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "kecamatan operator token has no district")
	}
	return actor, nil
}
