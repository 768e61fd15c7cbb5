package jwttoken

import "bankeu/pkg/domain"

// JWTServiceAdapter satisfies the auth middleware's ActorValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateActor(tokenString string) (domain.Actor, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return domain.Actor{}, err
	}
	return claims.Actor()
}
