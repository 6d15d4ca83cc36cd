package models

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"accounthub/internal/credentials"
)

type recordingNotifier struct {
	templates []string
	payloads  []map[string]any
}

func (r *recordingNotifier) SendTemplatedNotification(ctx context.Context, templateID string, payload map[string]any) error {
	r.templates = append(r.templates, templateID)
	r.payloads = append(r.payloads, payload)
	return nil
}

type recordingPublisher struct {
	events []string
}

func (r *recordingPublisher) Publish(ctx context.Context, event string, payload any) error {
	r.events = append(r.events, event)
	return nil
}

func persist(t *testing.T, codec *credentials.Codec, account *Account, notifier Notifier, publisher Publisher) {
	t.Helper()
	assert.NoError(t, account.PrepareForPersist(codec))
	account.OnPersisted(context.Background(), notifier, publisher)
}

func TestPrepareForPersist_NewAccount(t *testing.T) {
	codec := credentials.NewCodec(0)
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	assert.True(t, account.IsNew())
	assert.Empty(t, account.PasswordHash)

	assert.NoError(t, account.PrepareForPersist(codec))

	assert.NotEmpty(t, account.PasswordHash)
	assert.True(t, account.ComparePassword(codec, "testing123"))
	assert.False(t, account.ComparePassword(codec, "wrong"))

	assert.False(t, account.EmailVerified)
	assert.NotNil(t, account.EmailVerification)
	assert.Len(t, account.VerificationCode(), credentials.VerificationCodeLength)
	assert.False(t, account.CreatedAt.IsZero())
	assert.False(t, account.UpdatedAt.IsZero())
}

func TestOnPersisted_NewAccountSideEffects(t *testing.T) {
	codec := credentials.NewCodec(0)
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	assert.NoError(t, account.PrepareForPersist(codec))
	code := account.VerificationCode()

	account.OnPersisted(context.Background(), notifier, publisher)

	assert.Equal(t, []string{TemplateEmailVerification}, notifier.templates)
	assert.Equal(t, code, notifier.payloads[0]["code"])
	assert.Equal(t, []string{EventAccountCreated}, publisher.events)

	assert.False(t, account.IsNew())
	assert.Empty(t, account.VerificationCode())
}

func TestEmailChange_ResetsVerification(t *testing.T) {
	codec := credentials.NewCodec(0)
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	assert.NoError(t, account.PrepareForPersist(codec))
	firstCode := account.VerificationCode()
	account.OnPersisted(context.Background(), notifier, publisher)

	account.MarkEmailVerified()
	assert.True(t, account.EmailVerified)

	account.SetEmail("new@test.com")
	assert.NoError(t, account.PrepareForPersist(codec))

	assert.False(t, account.EmailVerified)
	assert.NotNil(t, account.EmailVerification)
	assert.NotEqual(t, firstCode, account.VerificationCode())

	account.OnPersisted(context.Background(), notifier, publisher)
	assert.Equal(t, []string{TemplateEmailVerification, TemplateEmailVerification}, notifier.templates)
	assert.Equal(t, []string{EventAccountCreated, EventAccountUpdated}, publisher.events)
}

func TestSetEmail_SameValueIsNoop(t *testing.T) {
	codec := credentials.NewCodec(0)
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")
	persist(t, codec, account, notifier, publisher)

	account.MarkEmailVerified()
	persist(t, codec, account, notifier, publisher)
	assert.True(t, account.EmailVerified)

	account.SetEmail("user@test.com")
	assert.NoError(t, account.PrepareForPersist(codec))
	assert.True(t, account.EmailVerified, "unchanged email must not reset verification")
}

func TestVerifyEmailCode_SingleUse(t *testing.T) {
	codec := credentials.NewCodec(0)
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	assert.NoError(t, account.PrepareForPersist(codec))
	code := account.VerificationCode()

	assert.False(t, account.VerifyEmailCode(codec, "000000"))
	assert.True(t, account.VerifyEmailCode(codec, code))

	account.MarkEmailVerified()
	assert.True(t, account.EmailVerified)
	assert.Nil(t, account.EmailVerification)
	assert.False(t, account.VerifyEmailCode(codec, code), "a matched code must never match again")
}

func TestPasswordResetFlow(t *testing.T) {
	codec := credentials.NewCodec(0)
	notifier := &recordingNotifier{}
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "old-password")
	persist(t, codec, account, notifier, &recordingPublisher{})

	code, err := account.RequestPasswordReset(context.Background(), codec, notifier)
	assert.NoError(t, err)
	assert.Len(t, code, credentials.VerificationCodeLength)
	assert.NotNil(t, account.ForgotPassword)
	assert.Contains(t, notifier.templates, TemplatePasswordReset)

	assert.False(t, account.CompareResetCode(codec, "000000"))
	assert.True(t, account.CompareResetCode(codec, code))

	account.CompletePasswordReset("new-password")
	assert.Nil(t, account.ForgotPassword)
	assert.NotNil(t, account.LastPasswordResetAt)
	assert.False(t, account.CompareResetCode(codec, code))

	assert.NoError(t, account.PrepareForPersist(codec))
	assert.True(t, account.ComparePassword(codec, "new-password"))
	assert.False(t, account.ComparePassword(codec, "old-password"))
}

func TestResetSlot_Overwritten(t *testing.T) {
	codec := credentials.NewCodec(0)
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	first, err := account.RequestPasswordReset(context.Background(), codec, nil)
	assert.NoError(t, err)
	second, err := account.RequestPasswordReset(context.Background(), codec, nil)
	assert.NoError(t, err)

	assert.False(t, account.CompareResetCode(codec, first), "a new request overwrites the previous code")
	assert.True(t, account.CompareResetCode(codec, second))
}

func TestAddLoginRecord_AppendOnly(t *testing.T) {
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")

	account.AddLoginRecord("10.0.0.1", "token-1")
	account.AddLoginRecord("10.0.0.2", "token-2")

	assert.Len(t, account.LoginHistory, 2)
	assert.Equal(t, "10.0.0.1", account.LoginHistory[0].IP)
	assert.Equal(t, "token-1", account.LoginHistory[0].TokenID)
	assert.Equal(t, "token-2", account.LoginHistory[1].TokenID)
	assert.WithinDuration(t, time.Now(), account.LoginHistory[1].LoginAt, time.Minute)
}

func TestSafe_StripsSecrets(t *testing.T) {
	codec := credentials.NewCodec(0)
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")
	account.GrantPermission(uuid.New(), RoleAdmin)
	assert.NoError(t, account.PrepareForPersist(codec))

	view := account.Safe()

	assert.Equal(t, account.ID, view.ID)
	assert.Equal(t, account.Email, view.Email)
	assert.Len(t, view.Permissions, 1)
	assert.Equal(t, account.DeviceIDs, view.DeviceIDs)

	data, err := json.Marshal(view)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), account.PasswordHash)
	assert.NotContains(t, string(data), account.EmailVerification.Hash)
}

func TestNoopSetters_SuppressUpdatedEvent(t *testing.T) {
	codec := credentials.NewCodec(0)
	publisher := &recordingPublisher{}
	account := NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")
	persist(t, codec, account, &recordingNotifier{}, publisher)
	assert.Equal(t, []string{EventAccountCreated}, publisher.events)

	account.SetName("Ada", "Lovelace")
	account.SetPhoneNumber("+1000")
	persist(t, codec, account, &recordingNotifier{}, publisher)

	assert.Equal(t, []string{EventAccountCreated}, publisher.events, "no-op saves must not publish updates")
}
