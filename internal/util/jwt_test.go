package util

import (
	"testing"
	"time"

	"skillpath_backend/internal/model"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", model.Instructor, "secret", "idp", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ParseJWT(token, "secret", "idp")
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.Identity() != "user-1" || claims.Role != model.Instructor {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	valid, _ := GenerateJWT("user-1", model.Student, "secret", "idp", time.Hour)
	expired, _ := GenerateJWT("user-1", model.Student, "secret", "idp", -time.Hour)

	tests := []struct {
		name   string
		token  string
		secret string
		issuer string
	}{
		{"wrong-secret", valid, "other", "idp"},
		{"wrong-issuer", valid, "secret", "someone-else"},
		{"expired", expired, "secret", "idp"},
		{"garbage", "not-a-token", "secret", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJWT(tt.token, tt.secret, tt.issuer); err == nil {
				t.Error("ParseJWT() error = nil, want error")
			}
		})
	}
}

func TestClaims_IdentityFallback(t *testing.T) {
	c := &Claims{}
	c.RegisteredClaims.Subject = "sub-42"
	if c.Identity() != "sub-42" {
		t.Fatalf("Identity() = %q, want sub-42", c.Identity())
	}
}
