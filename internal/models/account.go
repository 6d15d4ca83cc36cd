package models

import (
	"context"
	"time"

	"github.com/google/uuid"

	"accounthub/internal/credentials"
)

// PermissionGrant ties an account to a role inside one workspace.
type PermissionGrant struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Role        string    `json:"role"`
}

// LoginRecord is one entry of the append-only login history.
type LoginRecord struct {
	LoginAt time.Time `json:"login_at"`
	IP      string    `json:"ip"`
	TokenID string    `json:"token_id"`
}

// Account is the user document. Mutation goes through the setters so the
// lifecycle hooks know what changed; PrepareForPersist must run before the
// store write and OnPersisted after it succeeds.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	PasswordHash string    `json:"-" db:"password_hash"`

	Banned bool `json:"banned" db:"banned"`

	FirstName         string `json:"first_name" db:"first_name"`
	LastName          string `json:"last_name" db:"last_name"`
	ProfilePictureURL string `json:"profile_picture_url" db:"profile_picture_url"`

	EmailVerified     bool                   `json:"email_verified" db:"email_verified"`
	EmailVerification *credentials.TimedCode `json:"-" db:"email_verification"`
	ForgotPassword    *credentials.TimedCode `json:"-" db:"forgot_password"`

	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
	LastPasswordResetAt *time.Time `json:"last_password_reset_at" db:"last_password_reset_at"`

	LoginHistory []LoginRecord `json:"login_history" db:"login_history"`
	DeviceIDs    []string      `json:"device_ids" db:"device_ids"`

	UserMetadata Metadata `json:"user_metadata" db:"user_metadata"`
	AppMetadata  Metadata `json:"app_metadata" db:"app_metadata"`

	Permissions []PermissionGrant `json:"permissions" db:"permissions"`

	// transient lifecycle state, never persisted
	isNew              bool
	modified           bool
	passwordPlain      string
	passwordDirty      bool
	emailDirty         bool
	verificationCode   string
	notifyVerification bool
}

// NewAccount creates an unpersisted account. The password stays plaintext
// until PrepareForPersist hashes it.
func NewAccount(email, phoneNumber, firstName, lastName, password string) *Account {
	a := &Account{
		ID:           uuid.New(),
		Email:        email,
		PhoneNumber:  phoneNumber,
		FirstName:    firstName,
		LastName:     lastName,
		LoginHistory: []LoginRecord{},
		DeviceIDs:    []string{},
		UserMetadata: Metadata{},
		AppMetadata:  Metadata{},
		Permissions:  []PermissionGrant{},
		isNew:        true,
	}
	a.SetPassword(password)
	return a
}

// IsNew reports whether the account has never been persisted.
func (a *Account) IsNew() bool { return a.isNew }

// SetPassword stages a password change; the hash replaces the plaintext on the
// next PrepareForPersist.
func (a *Account) SetPassword(plain string) {
	a.passwordPlain = plain
	a.passwordDirty = true
	a.modified = true
}

// SetEmail changes the address. Any change re-flips EmailVerified to false and
// regenerates the verification code on the next PrepareForPersist.
func (a *Account) SetEmail(email string) {
	if email == a.Email {
		return
	}
	a.Email = email
	a.emailDirty = true
	a.modified = true
}

func (a *Account) SetPhoneNumber(phone string) {
	if phone == a.PhoneNumber {
		return
	}
	a.PhoneNumber = phone
	a.modified = true
}

func (a *Account) SetName(first, last string) {
	if first == a.FirstName && last == a.LastName {
		return
	}
	a.FirstName = first
	a.LastName = last
	a.modified = true
}

func (a *Account) SetProfilePictureURL(url string) {
	if url == a.ProfilePictureURL {
		return
	}
	a.ProfilePictureURL = url
	a.modified = true
}

func (a *Account) SetBanned(banned bool) {
	if banned == a.Banned {
		return
	}
	a.Banned = banned
	a.modified = true
}

func (a *Account) SetUserMetadata(m Metadata) {
	a.UserMetadata = m
	a.modified = true
}

func (a *Account) SetAppMetadata(m Metadata) {
	a.AppMetadata = m
	a.modified = true
}

// AddDeviceID appends a device identifier; the list is append-only.
func (a *Account) AddDeviceID(deviceID string) {
	a.DeviceIDs = append(a.DeviceIDs, deviceID)
	a.modified = true
}

// AddLoginRecord appends to the login history.
func (a *Account) AddLoginRecord(ip, tokenID string) {
	a.LoginHistory = append(a.LoginHistory, LoginRecord{
		LoginAt: time.Now(),
		IP:      ip,
		TokenID: tokenID,
	})
	a.modified = true
}

// GrantPermission adds a workspace-scoped role grant.
func (a *Account) GrantPermission(workspaceID uuid.UUID, role string) {
	a.Permissions = append(a.Permissions, PermissionGrant{WorkspaceID: workspaceID, Role: role})
	a.modified = true
}

// ComparePassword reports whether plain matches the stored hash.
func (a *Account) ComparePassword(codec *credentials.Codec, plain string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return codec.ComparePassword(plain, a.PasswordHash)
}

// PrepareForPersist runs the pre-write lifecycle: stamp timestamps, hash a
// staged password, and regenerate the email verification code when the
// account is new or the address changed.
func (a *Account) PrepareForPersist(codec *credentials.Codec) error {
	now := time.Now()
	a.UpdatedAt = now
	if a.isNew && a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}

	if a.passwordDirty {
		hash, err := codec.HashPassword(a.passwordPlain)
		if err != nil {
			return err
		}
		a.PasswordHash = hash
		a.passwordPlain = ""
	}

	if a.isNew || a.emailDirty {
		a.EmailVerified = false
		code, stored, err := codec.IssueTimedCode()
		if err != nil {
			return err
		}
		a.EmailVerification = stored
		a.verificationCode = code
		a.notifyVerification = true
	}

	return nil
}

// OnPersisted runs the post-write lifecycle: dispatch the verification email
// scheduled by PrepareForPersist and publish the created/updated event. Sink
// errors are absorbed by the sink implementations.
func (a *Account) OnPersisted(ctx context.Context, notifier Notifier, publisher Publisher) {
	if a.notifyVerification && notifier != nil {
		_ = notifier.SendTemplatedNotification(ctx, TemplateEmailVerification, map[string]any{
			"code": a.verificationCode,
			"user": map[string]any{
				"id":         a.ID,
				"email":      a.Email,
				"first_name": a.FirstName,
				"last_name":  a.LastName,
			},
		})
	}

	if publisher != nil {
		if a.isNew {
			_ = publisher.Publish(ctx, EventAccountCreated, a.Safe())
		} else if a.modified {
			_ = publisher.Publish(ctx, EventAccountUpdated, a.Safe())
		}
	}

	a.isNew = false
	a.modified = false
	a.passwordDirty = false
	a.emailDirty = false
	a.verificationCode = ""
	a.notifyVerification = false
}

// VerificationCode exposes the plaintext verification code generated by the
// last PrepareForPersist. Test/debug visibility only; empty after OnPersisted.
func (a *Account) VerificationCode() string { return a.verificationCode }

// VerifyEmailCode compares code against the verification slot (fail closed).
// On success the caller flips EmailVerified, clears the slot and persists.
func (a *Account) VerifyEmailCode(codec *credentials.Codec, code string) bool {
	return codec.CompareTimedCode(code, a.EmailVerification)
}

// MarkEmailVerified flips the verified flag and clears the slot so the code
// can never match again.
func (a *Account) MarkEmailVerified() {
	a.EmailVerified = true
	a.EmailVerification = nil
	a.modified = true
}

// RequestPasswordReset issues a timed code into the reset slot and dispatches
// the reset notification out of band. It does not persist; the caller must
// save. Returns the plaintext code for test/debug visibility.
func (a *Account) RequestPasswordReset(ctx context.Context, codec *credentials.Codec, notifier Notifier) (string, error) {
	code, stored, err := codec.IssueTimedCode()
	if err != nil {
		return "", err
	}
	a.ForgotPassword = stored
	a.modified = true

	if notifier != nil {
		_ = notifier.SendTemplatedNotification(ctx, TemplatePasswordReset, map[string]any{
			"code": code,
			"user": map[string]any{
				"id":         a.ID,
				"email":      a.Email,
				"first_name": a.FirstName,
				"last_name":  a.LastName,
			},
		})
	}

	return code, nil
}

// CompareResetCode compares code against the reset slot (fail closed).
func (a *Account) CompareResetCode(codec *credentials.Codec, code string) bool {
	return codec.CompareTimedCode(code, a.ForgotPassword)
}

// CompletePasswordReset stages the new password, clears the reset slot and
// stamps the reset time. Caller persists.
func (a *Account) CompletePasswordReset(newPassword string) {
	a.SetPassword(newPassword)
	a.ForgotPassword = nil
	now := time.Now()
	a.LastPasswordResetAt = &now
}

// AccountView is the safe projection of an account: everything except the
// password hash and the verification/reset secrets.
type AccountView struct {
	ID                  uuid.UUID         `json:"id"`
	Email               string            `json:"email"`
	PhoneNumber         string            `json:"phone_number"`
	Banned              bool              `json:"banned"`
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	ProfilePictureURL   string            `json:"profile_picture_url,omitempty"`
	EmailVerified       bool              `json:"email_verified"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	LastPasswordResetAt *time.Time        `json:"last_password_reset_at,omitempty"`
	LoginHistory        []LoginRecord     `json:"login_history"`
	DeviceIDs           []string          `json:"device_ids"`
	UserMetadata        Metadata          `json:"user_metadata"`
	AppMetadata         Metadata          `json:"app_metadata"`
	Permissions         []PermissionGrant `json:"permissions"`
}

// Safe returns the projection allowed to cross the trust boundary.
func (a *Account) Safe() AccountView {
	return AccountView{
		ID:                  a.ID,
		Email:               a.Email,
		PhoneNumber:         a.PhoneNumber,
		Banned:              a.Banned,
		FirstName:           a.FirstName,
		LastName:            a.LastName,
		ProfilePictureURL:   a.ProfilePictureURL,
		EmailVerified:       a.EmailVerified,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		LastPasswordResetAt: a.LastPasswordResetAt,
		LoginHistory:        a.LoginHistory,
		DeviceIDs:           a.DeviceIDs,
		UserMetadata:        a.UserMetadata,
		AppMetadata:         a.AppMetadata,
		Permissions:         a.Permissions,
	}
}
