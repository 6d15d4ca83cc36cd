package models

import (
	"context"
	"time"

	"github.com/google/uuid"

	"accounthub/internal/credentials"
)

// Invite is a workspace invitation document. Its lifecycle mirrors Account:
// a one-slot timed invitation code regenerated when the invite is new or a
// resend is requested, with the invitation email dispatched after persist.
type Invite struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id" db:"workspace_id"`
	Email       string    `json:"email" db:"email"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Accepted    bool      `json:"accepted" db:"accepted"`
	Role        string    `json:"role" db:"role"`

	Invitation *credentials.TimedCode `json:"-" db:"invitation"`

	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	AcceptedAt *time.Time `json:"accepted_at" db:"accepted_at"`

	// transient lifecycle state, never persisted
	isNew            bool
	modified         bool
	resend           bool
	invitationCode   string
	notifyInvitation bool
}

// NewInvite creates an unpersisted invite. An empty role defaults to "user".
func NewInvite(workspaceID uuid.UUID, email, firstName, lastName, role string) *Invite {
	if role == "" {
		role = RoleUser
	}
	return &Invite{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		Role:        role,
		isNew:       true,
	}
}

// IsNew reports whether the invite has never been persisted.
func (i *Invite) IsNew() bool { return i.isNew }

// Resend requests regeneration of the invitation code on the next save. The
// flag is transient and never persisted.
func (i *Invite) Resend() {
	i.resend = true
	i.modified = true
}

// PrepareForPersist stamps timestamps and regenerates the invitation code when
// the invite is new or a resend was requested.
func (i *Invite) PrepareForPersist(codec *credentials.Codec) error {
	now := time.Now()
	i.UpdatedAt = now
	if i.isNew && i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}

	if i.isNew || i.resend {
		code, stored, err := codec.IssueTimedCode()
		if err != nil {
			return err
		}
		i.Invitation = stored
		i.invitationCode = code
		i.notifyInvitation = true
	}

	return nil
}

// OnPersisted dispatches the invitation email scheduled by PrepareForPersist.
func (i *Invite) OnPersisted(ctx context.Context, notifier Notifier) {
	if i.notifyInvitation && notifier != nil {
		_ = notifier.SendTemplatedNotification(ctx, TemplateInvite, map[string]any{
			"code": i.invitationCode,
			"user": map[string]any{
				"id":         i.ID,
				"email":      i.Email,
				"first_name": i.FirstName,
				"last_name":  i.LastName,
			},
		})
	}

	i.isNew = false
	i.modified = false
	i.resend = false
	i.invitationCode = ""
	i.notifyInvitation = false
}

// InvitationCode exposes the plaintext code generated by the last
// PrepareForPersist. Test/debug visibility only; empty after OnPersisted.
func (i *Invite) InvitationCode() string { return i.invitationCode }

// CompareInviteCode compares code against the invitation slot (fail closed).
func (i *Invite) CompareInviteCode(codec *credentials.Codec, code string) bool {
	return codec.CompareTimedCode(code, i.Invitation)
}

// MarkAccepted flips the accepted flag, stamps the acceptance time and clears
// the code slot so the invitation can never match again.
func (i *Invite) MarkAccepted() {
	i.Accepted = true
	now := time.Now()
	i.AcceptedAt = &now
	i.Invitation = nil
	i.modified = true
}

// InviteView is the safe projection of an invite (no invitation secret).
type InviteView struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Accepted    bool       `json:"accepted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// Safe returns the projection allowed to cross the trust boundary.
func (i *Invite) Safe() InviteView {
	return InviteView{
		ID:          i.ID,
		WorkspaceID: i.WorkspaceID,
		Email:       i.Email,
		FirstName:   i.FirstName,
		LastName:    i.LastName,
		Role:        i.Role,
		Accepted:    i.Accepted,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		AcceptedAt:  i.AcceptedAt,
	}
}
