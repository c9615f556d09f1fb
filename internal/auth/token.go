package auth

import (
	"encoding/json"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/scalebit/admin-console/internal/domain"
)

// Bounds of exp values shown as a timestamp (years 0001 through 9999).
const (
	minExp = -62135596800
	maxExp = 253402300799
)

// segmentParser only decodes; signatures are checked by the gateway, never here.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims reads the payload segment of a compact token. ok is false for
// any malformed input; callers treat that exactly like an absent token.
func DecodeClaims(raw string) (*domain.Claims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil || mc == nil {
		return nil, false
	}

	claims := &domain.Claims{}
	switch exp := mc["exp"].(type) {
	case nil:
	case float64:
		// Zero reads as no expiry, like an absent claim.
		if exp != 0 {
			claims.Exp = &exp
			if exp >= minExp && exp <= maxExp {
				t := time.Unix(int64(exp), 0)
				claims.ExpiresAt = &t
			}
		}
	default:
		return nil, false
	}
	if role, ok := mc["role"].(string); ok {
		r := domain.Role(role)
		claims.Role = &r
	}
	if id, ok := mc["id"].(float64); ok {
		v := int64(id)
		claims.UserID = &v
	}
	claims.Email, _ = mc["email"].(string)
	claims.Name, _ = mc["name"].(string)
	return claims, true
}

// Expired reports whether claims carry an exp strictly before now in whole
// seconds. A token expiring exactly at now is still valid. The comparison
// stays in float64 so out-of-range exp values cannot wrap around.
func Expired(claims *domain.Claims, now time.Time) bool {
	if claims == nil || claims.Exp == nil {
		return false
	}
	return *claims.Exp < float64(now.Unix())
}
