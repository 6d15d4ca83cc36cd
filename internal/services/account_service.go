package services

import (
	"context"

	"github.com/google/uuid"

	"accounthub/internal/credentials"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/repositories"
)

// CreateAccountRequest carries the fields needed to open an account.
type CreateAccountRequest struct {
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
	Password    string
}

// AccountPatch is a partial update: only non-zero fields overwrite, and
// DeviceID appends to the device list instead of replacing it.
type AccountPatch struct {
	FirstName         string
	LastName          string
	PhoneNumber       string
	Email             string
	ProfilePictureURL string
	DeviceID          string
	UserMetadata      models.Metadata
}

type AccountService interface {
	Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id uuid.UUID, patch AccountPatch) (*models.Account, error)
	UpdateAppMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) (*models.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error
	RecordLogin(ctx context.Context, account *models.Account, ip, tokenID string) error
	VerifyEmail(ctx context.Context, id uuid.UUID, code string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, id uuid.UUID, code, newPassword string) error
	GrantPermission(ctx context.Context, id, workspaceID uuid.UUID, role string) (*models.Account, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Clean(ctx context.Context) error
}

type accountService struct {
	repo      repositories.AccountRepository
	codec     *credentials.Codec
	notifier  models.Notifier
	publisher models.Publisher
}

func NewAccountService(repo repositories.AccountRepository, codec *credentials.Codec, notifier models.Notifier, publisher models.Publisher) AccountService {
	return &accountService{
		repo:      repo,
		codec:     codec,
		notifier:  notifier,
		publisher: publisher,
	}
}

// save runs the entity lifecycle around the store write: prepare, persist,
// then the post-persist side effects.
func (s *accountService) save(ctx context.Context, account *models.Account) error {
	if err := account.PrepareForPersist(s.codec); err != nil {
		return err
	}
	var err error
	if account.IsNew() {
		err = s.repo.Insert(ctx, account)
	} else {
		err = s.repo.Save(ctx, account)
	}
	if err != nil {
		return err
	}
	account.OnPersisted(ctx, s.notifier, s.publisher)
	return nil
}

func (s *accountService) Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	account := models.NewAccount(req.Email, req.PhoneNumber, req.FirstName, req.LastName, req.Password)
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Update applies a partial merge: provided fields overwrite, absent fields
// stay, a device id is appended. The read-modify-write is not transactional;
// the later of two concurrent updates wins.
func (s *accountService) Update(ctx context.Context, id uuid.UUID, patch AccountPatch) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	first, last := account.FirstName, account.LastName
	if patch.FirstName != "" {
		first = patch.FirstName
	}
	if patch.LastName != "" {
		last = patch.LastName
	}
	account.SetName(first, last)

	if patch.PhoneNumber != "" {
		account.SetPhoneNumber(patch.PhoneNumber)
	}
	if patch.Email != "" {
		account.SetEmail(patch.Email)
	}
	if patch.ProfilePictureURL != "" {
		account.SetProfilePictureURL(patch.ProfilePictureURL)
	}
	if patch.UserMetadata != nil {
		account.SetUserMetadata(patch.UserMetadata)
	}
	if patch.DeviceID != "" {
		account.AddDeviceID(patch.DeviceID)
	}

	if err := s.save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) UpdateAppMetadata(ctx context.Context, id uuid.UUID, metadata models.Metadata) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if metadata != nil {
		account.SetAppMetadata(metadata)
	}
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	account.SetPassword(newPassword)
	return s.save(ctx, account)
}

// RecordLogin appends to the login history of an already-loaded account.
func (s *accountService) RecordLogin(ctx context.Context, account *models.Account, ip, tokenID string) error {
	account.AddLoginRecord(ip, tokenID)
	return s.save(ctx, account)
}

func (s *accountService) VerifyEmail(ctx context.Context, id uuid.UUID, code string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.VerifyEmailCode(s.codec, code) {
		return domain.ErrUnauthorized
	}
	account.MarkEmailVerified()
	return s.save(ctx, account)
}

// RequestPasswordReset issues a reset code for the account behind email and
// dispatches the reset notification. The plaintext code is returned for
// test/debug visibility only; it must never reach a production response body.
func (s *accountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	code, err := account.RequestPasswordReset(ctx, s.codec, s.notifier)
	if err != nil {
		return "", err
	}
	if err := s.save(ctx, account); err != nil {
		return "", err
	}
	return code, nil
}

func (s *accountService) ResetPassword(ctx context.Context, id uuid.UUID, code, newPassword string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.CompareResetCode(s.codec, code) {
		return domain.ErrUnauthorized
	}
	account.CompletePasswordReset(newPassword)
	return s.save(ctx, account)
}

func (s *accountService) GrantPermission(ctx context.Context, id, workspaceID uuid.UUID, role string) (*models.Account, error) {
	if !models.ValidRole(role) {
		return nil, domain.NewValidationError("role", "unknown role")
	}
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.GrantPermission(workspaceID, role)
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Remove deletes an account by id. Administrative-only, used in tests.
func (s *accountService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Clean bulk-deletes all accounts. Danger zone, test-only.
func (s *accountService) Clean(ctx context.Context) error {
	return s.repo.Clean(ctx)
}
