package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankeu/pkg/domain"
	dErrors "bankeu/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")

var kecamatanActor = domain.Actor{UserID: 7, Role: domain.RoleKecamatan, DistrictID: 12}

func Test_GenerateAndValidate(t *testing.T) {
	token, err := jwtService.GenerateActorToken(kecamatanActor, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, kecamatanActor, actor)
}

func Test_ValidateToken_Invalid(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_Expired(t *testing.T) {
	token, err := jwtService.GenerateActorToken(kecamatanActor, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token has expired")
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTService("test-signing-key", "someone-else")
	token, err := other.GenerateActorToken(kecamatanActor, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "dpmd"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(signed)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ClaimsActor(t *testing.T) {
	tests := []struct {
		name    string
		claims  Claims
		wantErr bool
	}{
		{name: "village with village id", claims: Claims{UserID: 1, Role: "desa", VillageID: 3}},
		{name: "province wide dpmd", claims: Claims{UserID: 1, Role: "dpmd"}},
		{name: "missing user", claims: Claims{Role: "dpmd"}, wantErr: true},
		{name: "unknown role", claims: Claims{UserID: 1, Role: "camat"}, wantErr: true},
		{name: "village without village id", claims: Claims{UserID: 1, Role: "desa"}, wantErr: true},
		{name: "kecamatan without district", claims: Claims{UserID: 1, Role: "kecamatan"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.claims.Actor()
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateActorToken(kecamatanActor, time.Hour)
	require.NoError(t, err)

	actor, err := NewJWTServiceAdapter(jwtService).ValidateActor(token)
	require.NoError(t, err)
	assert.Equal(t, kecamatanActor, actor)
}
