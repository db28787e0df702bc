package utils

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-1", "admin@productpraat.nl", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims["sub"] != "user-1" || claims["role"] != "admin" {
		t.Errorf("claims = %v", claims)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestExtractClaimsFromHeader(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateJWT("user-2", "editor@productpraat.nl", "editor", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/v1/admin/affiliate/networks", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims, err := ExtractClaims(r)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if claims.UserID != "user-2" || claims.Role != "editor" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestExtractClaimsNoToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := ExtractClaims(r); err == nil {
		t.Fatal("expected error when no token present")
	}
}
