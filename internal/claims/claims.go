// Package claims decodes the payload of a session credential.
//
// The credential is a JWT issued by the task service. This client holds no
// verification key, so the signature is never checked: the claims are a
// convenience lookup (who am I?) and not a security boundary. Authenticity
// rests on the HTTPS transport to the issuing service, and the server checks
// the signature on every authenticated call.
package claims

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode is wrapped by every decode failure. Callers treat it exactly
// like a missing credential.
var ErrDecode = errors.New("credential decode failed")

// Claims is the decoded payload of a credential.
type Claims struct {
	// Subject is the user's email.
	Subject string

	// ExpiresAt is the "exp" claim, zero if absent. Informational only.
	ExpiresAt time.Time

	// IssuedAt is the "iat" claim, zero if absent.
	IssuedAt time.Time

	// Raw holds every claim as decoded.
	Raw map[string]any
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode splits token into header.payload.signature and parses the payload
// segment. Only the payload is decoded; header and signature are opaque.
func Decode(token string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrDecode, len(parts))
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not base64url: %v", ErrDecode, err)
	}

	var mc jwt.MapClaims
	if err := json.Unmarshal(payload, &mc); err != nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object: %v", ErrDecode, err)
	}
	if mc == nil {
		return Claims{}, fmt.Errorf("%w: payload is empty", ErrDecode)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrDecode)
	}

	c := Claims{Subject: sub, Raw: map[string]any(mc)}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}
