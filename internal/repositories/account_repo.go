package repositories

import (
	"context"

	"github.com/google/uuid"

	"accounthub/internal/domain"
	"accounthub/internal/models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	Clean(ctx context.Context) error
}

type accountRepo struct {
	db Database
}

func NewAccountRepo(db Database) AccountRepository {
	return &accountRepo{db: db}
}

const accountColumns = `id, email, phone_number, password_hash, banned, first_name, last_name,
		profile_picture_url, email_verified, email_verification, forgot_password,
		created_at, updated_at, last_password_reset_at, login_history, device_ids,
		user_metadata, app_metadata, permissions`

func (r *accountRepo) Insert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, phone_number, password_hash, banned, first_name, last_name,
			profile_picture_url, email_verified, email_verification, forgot_password,
			created_at, updated_at, last_password_reset_at, login_history, device_ids,
			user_metadata, app_metadata, permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.db.Exec(ctx, query,
		account.ID, account.Email, account.PhoneNumber, account.PasswordHash, account.Banned,
		account.FirstName, account.LastName, account.ProfilePictureURL,
		account.EmailVerified, account.EmailVerification, account.ForgotPassword,
		account.CreatedAt, account.UpdatedAt, account.LastPasswordResetAt,
		account.LoginHistory, account.DeviceIDs,
		account.UserMetadata, account.AppMetadata, account.Permissions,
	)
	return mapStoreError(err)
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// Save writes the full document back by id. There is no version check; the
// later of two concurrent saves wins.
func (r *accountRepo) Save(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET email = $2, phone_number = $3, password_hash = $4, banned = $5,
			first_name = $6, last_name = $7, profile_picture_url = $8,
			email_verified = $9, email_verification = $10, forgot_password = $11,
			updated_at = $12, last_password_reset_at = $13, login_history = $14,
			device_ids = $15, user_metadata = $16, app_metadata = $17, permissions = $18
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		account.ID, account.Email, account.PhoneNumber, account.PasswordHash, account.Banned,
		account.FirstName, account.LastName, account.ProfilePictureURL,
		account.EmailVerified, account.EmailVerification, account.ForgotPassword,
		account.UpdatedAt, account.LastPasswordResetAt, account.LoginHistory,
		account.DeviceIDs, account.UserMetadata, account.AppMetadata, account.Permissions,
	)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clean removes every account. Danger zone, test-only.
func (r *accountRepo) Clean(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts`)
	return mapStoreError(err)
}

func (r *accountRepo) scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Email, &account.PhoneNumber, &account.PasswordHash, &account.Banned,
		&account.FirstName, &account.LastName, &account.ProfilePictureURL,
		&account.EmailVerified, &account.EmailVerification, &account.ForgotPassword,
		&account.CreatedAt, &account.UpdatedAt, &account.LastPasswordResetAt,
		&account.LoginHistory, &account.DeviceIDs,
		&account.UserMetadata, &account.AppMetadata, &account.Permissions,
	)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return account, nil
}
