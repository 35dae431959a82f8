package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

    "github.com/iliyamo/match-ticket-reservation/internal/model"
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is not
// a well-formed, unexpired HS256 token carrying a numeric subject and a
// known role.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    `json:"token"`
    Exp   time.Time `json:"expires"`
}

// RefreshToken represents a long-lived token used to obtain new access
// tokens.  Only a SHA-256 hash of Raw is stored in the database.
type RefreshToken struct {
    Raw string    `json:"token"`
    Exp time.Time `json:"expires"`
}

// NewAccessToken builds and signs an HS256 JWT for an account.  The subject
// is the decimal account id; role is a separate claim.
func NewAccessToken(secret string, accountID uint64, role model.Role, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  strconv.FormatUint(accountID, 10),
        "role": string(role),
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns the principal it
// carries.  Numeric subjects are accepted both as strings and as JSON
// numbers.
func ParseAccessToken(secret, raw string) (model.Principal, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject any algorithm other than HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return model.Principal{}, ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return model.Principal{}, ErrInvalidToken
    }

    var id uint64
    switch sub := claims["sub"].(type) {
    case string:
        if id, err = strconv.ParseUint(sub, 10, 64); err != nil {
            return model.Principal{}, ErrInvalidToken
        }
    case float64:
        // JSON numbers decode as float64
        id = uint64(sub)
    default:
        return model.Principal{}, ErrInvalidToken
    }
    roleClaim, _ := claims["role"].(string)
    role, ok := model.ParseRole(roleClaim)
    if id == 0 || !ok {
        return model.Principal{}, ErrInvalidToken
    }
    return model.Principal{AccountID: id, Role: role}, nil
}

// NewRefreshToken returns a cryptographically secure random token and its
// expiration time, ttlDays from now.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
