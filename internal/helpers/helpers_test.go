package helpers

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "a@b.c", "student")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@b.c" || claims.Role != "student" {
		t.Errorf("claims round trip mismatch: %+v", claims)
	}
	if claims.IsAdmin() {
		t.Error("student claims report admin")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestAdminClaims(t *testing.T) {
	token, _ := GenerateToken("admin-1", "ops@hostelhub.example", "admin")
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !claims.IsAdmin() {
		t.Error("admin claims not recognized")
	}
	if !claims.IsOwner("admin-1") || claims.IsOwner("someone-else") {
		t.Error("owner check wrong")
	}
}

func TestIsPasswordStrong(t *testing.T) {
	weak := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"}
	for _, p := range weak {
		if IsPasswordStrong(p) {
			t.Errorf("%q should be weak", p)
		}
	}
	if !IsPasswordStrong("Str0ngEnough") {
		t.Error("Str0ngEnough should pass")
	}
}

func TestGenerateHostelCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateHostelCode()
		if !strings.HasPrefix(code, "HST-") || len(code) != 10 {
			t.Fatalf("bad code format: %q", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code not uppercase: %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("codes collide too much: %d unique of 100", len(seen))
	}
}
