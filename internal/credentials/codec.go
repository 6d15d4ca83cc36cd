package credentials

import (
	"time"

	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"
)

// Charsets for GenerateCode.
const (
	CharsetNumeric      = random.Numeric
	CharsetAlphanumeric = random.Alphanumeric
)

const (
	// VerificationCodeLength is the length of human-enterable codes sent by
	// email (verification, password reset, invitations).
	VerificationCodeLength = 6

	// TokenIDLength is the length of the unique id embedded in issued tokens.
	TokenIDLength = 24

	// DefaultCodeTTL is how long a timed code stays valid.
	DefaultCodeTTL = 30 * time.Minute

	hashCost = 10
)

// TimedCode is the stored form of a one-time code: a bcrypt hash plus an
// expiry. The plaintext never touches the store.
type TimedCode struct {
	Hash      string    `json:"hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Codec hashes passwords and issues/compares timed one-time codes.
type Codec struct {
	cost int
	ttl  time.Duration
}

// NewCodec creates a codec. A non-positive ttl falls back to DefaultCodeTTL.
func NewCodec(ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &Codec{cost: hashCost, ttl: ttl}
}

// HashPassword produces an irreversible salted hash of plain.
func (c *Codec) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether plain matches hash.
func (c *Codec) ComparePassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateCode produces a short random code from the given charset.
func (c *Codec) GenerateCode(length uint8, charset string) string {
	return random.String(length, charset)
}

// IssueTimedCode generates a numeric one-time code and returns the plaintext
// alongside its stored form (hash + expiry).
func (c *Codec) IssueTimedCode() (string, *TimedCode, error) {
	code := c.GenerateCode(VerificationCodeLength, CharsetNumeric)
	hash, err := c.HashPassword(code)
	if err != nil {
		return "", nil, err
	}
	return code, &TimedCode{Hash: hash, ExpiresAt: time.Now().Add(c.ttl)}, nil
}

// CompareTimedCode reports whether code matches stored and stored has not
// expired. Absent, cleared or expired codes never match.
func (c *Codec) CompareTimedCode(code string, stored *TimedCode) bool {
	if stored == nil || stored.Hash == "" || stored.ExpiresAt.IsZero() {
		return false
	}
	if !time.Now().Before(stored.ExpiresAt) {
		return false
	}
	return c.ComparePassword(code, stored.Hash)
}
