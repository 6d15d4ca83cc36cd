package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"accounthub/internal/credentials"
	"accounthub/internal/domain"
	"accounthub/internal/models"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Insert(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) Clean(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendTemplatedNotification(ctx context.Context, templateID string, payload map[string]any) error {
	args := m.Called(ctx, templateID, payload)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event string, payload any) error {
	args := m.Called(ctx, event, payload)
	return args.Error(0)
}

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockAccountRepository
	notifier  *MockNotifier
	publisher *MockPublisher
	codec     *credentials.Codec
	service   AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockAccountRepository{}
	suite.notifier = &MockNotifier{}
	suite.publisher = &MockPublisher{}
	suite.codec = credentials.NewCodec(0)
	suite.service = NewAccountService(suite.mockRepo, suite.codec, suite.notifier, suite.publisher)

	suite.mockRepo.Test(suite.T())
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// persistedAccount builds an account that has already been through one save
// cycle, so subsequent saves route through Save instead of Insert.
func (suite *AccountServiceTestSuite) persistedAccount(email string) *models.Account {
	account := models.NewAccount(email, "+1000", "Ada", "Lovelace", "testing123")
	assert.NoError(suite.T(), account.PrepareForPersist(suite.codec))
	account.OnPersisted(context.Background(), nil, nil)
	return account
}

func (suite *AccountServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()

	suite.mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.Account")).Return(nil).Run(func(args mock.Arguments) {
		account := args.Get(1).(*models.Account)
		assert.NotEmpty(suite.T(), account.PasswordHash)
		assert.True(suite.T(), account.ComparePassword(suite.codec, "testing123"))
		assert.False(suite.T(), account.EmailVerified)
		assert.NotNil(suite.T(), account.EmailVerification)
	})
	suite.notifier.On("SendTemplatedNotification", ctx, models.TemplateEmailVerification, mock.Anything).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountCreated, mock.Anything).Return(nil)

	account, err := suite.service.Create(ctx, CreateAccountRequest{
		Email:       "user@test.com",
		PhoneNumber: "+1000",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Password:    "testing123",
	})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), account)
	assert.Equal(suite.T(), "user@test.com", account.Email)
	assert.False(suite.T(), account.IsNew())
}

func (suite *AccountServiceTestSuite) TestCreate_DuplicateEmail() {
	ctx := context.Background()

	suite.mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.Account")).Return(domain.ErrConflict)

	account, err := suite.service.Create(ctx, CreateAccountRequest{
		Email:    "taken@test.com",
		Password: "testing123",
	})
	assert.ErrorIs(suite.T(), err, domain.ErrConflict)
	assert.Nil(suite.T(), account)
}

func (suite *AccountServiceTestSuite) TestUpdate_PartialMerge() {
	ctx := context.Background()
	existing := suite.persistedAccount("user@test.com")
	existing.AddDeviceID("device-1")
	existing.OnPersisted(ctx, nil, nil)

	suite.mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	suite.mockRepo.On("Save", ctx, existing).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	updated, err := suite.service.Update(ctx, existing.ID, AccountPatch{
		FirstName: "Grace",
		DeviceID:  "device-2",
	})
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Grace", updated.FirstName)
	assert.Equal(suite.T(), "Lovelace", updated.LastName, "absent fields stay untouched")
	assert.Equal(suite.T(), "user@test.com", updated.Email)
	assert.Equal(suite.T(), "+1000", updated.PhoneNumber)
	assert.Equal(suite.T(), []string{"device-1", "device-2"}, updated.DeviceIDs, "device ids append, not replace")
}

func (suite *AccountServiceTestSuite) TestUpdate_EmailChangeReissuesVerification() {
	ctx := context.Background()
	existing := suite.persistedAccount("user@test.com")
	existing.MarkEmailVerified()
	existing.OnPersisted(ctx, nil, nil)

	suite.mockRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	suite.mockRepo.On("Save", ctx, existing).Return(nil)
	suite.notifier.On("SendTemplatedNotification", ctx, models.TemplateEmailVerification, mock.Anything).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	updated, err := suite.service.Update(ctx, existing.ID, AccountPatch{Email: "new@test.com"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "new@test.com", updated.Email)
	assert.False(suite.T(), updated.EmailVerified)
	assert.NotNil(suite.T(), updated.EmailVerification)
}

func (suite *AccountServiceTestSuite) TestVerifyEmail_Success() {
	ctx := context.Background()
	account := models.NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")
	assert.NoError(suite.T(), account.PrepareForPersist(suite.codec))
	code := account.VerificationCode()
	account.OnPersisted(ctx, nil, nil)

	suite.mockRepo.On("GetByID", ctx, account.ID).Return(account, nil)
	suite.mockRepo.On("Save", ctx, account).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	err := suite.service.VerifyEmail(ctx, account.ID, code)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), account.EmailVerified)
	assert.Nil(suite.T(), account.EmailVerification)
}

func (suite *AccountServiceTestSuite) TestVerifyEmail_WrongCode() {
	ctx := context.Background()
	account := models.NewAccount("user@test.com", "+1000", "Ada", "Lovelace", "testing123")
	assert.NoError(suite.T(), account.PrepareForPersist(suite.codec))
	account.OnPersisted(ctx, nil, nil)

	suite.mockRepo.On("GetByID", ctx, account.ID).Return(account, nil)

	err := suite.service.VerifyEmail(ctx, account.ID, "000000")
	assert.ErrorIs(suite.T(), err, domain.ErrUnauthorized)
	assert.False(suite.T(), account.EmailVerified)
	suite.mockRepo.AssertNotCalled(suite.T(), "Save", ctx, account)
}

func (suite *AccountServiceTestSuite) TestVerifyEmail_AccountNotFound() {
	ctx := context.Background()
	id := uuid.New()

	suite.mockRepo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound)

	err := suite.service.VerifyEmail(ctx, id, "123456")
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestRequestPasswordReset_UnknownEmail() {
	ctx := context.Background()

	suite.mockRepo.On("GetByEmail", ctx, "missing@test.com").Return(nil, domain.ErrNotFound)

	code, err := suite.service.RequestPasswordReset(ctx, "missing@test.com")
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
	assert.Empty(suite.T(), code)
}

func (suite *AccountServiceTestSuite) TestRequestPasswordReset_Success() {
	ctx := context.Background()
	account := suite.persistedAccount("user@test.com")

	suite.mockRepo.On("GetByEmail", ctx, "user@test.com").Return(account, nil)
	suite.mockRepo.On("Save", ctx, account).Return(nil)
	suite.notifier.On("SendTemplatedNotification", ctx, models.TemplatePasswordReset, mock.Anything).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	code, err := suite.service.RequestPasswordReset(ctx, "user@test.com")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), code, credentials.VerificationCodeLength)
	assert.NotNil(suite.T(), account.ForgotPassword)
	assert.True(suite.T(), account.CompareResetCode(suite.codec, code))
}

func (suite *AccountServiceTestSuite) TestResetPassword_Flow() {
	ctx := context.Background()
	account := suite.persistedAccount("user@test.com")
	code, err := account.RequestPasswordReset(ctx, suite.codec, nil)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("GetByID", ctx, account.ID).Return(account, nil)
	suite.mockRepo.On("Save", ctx, account).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	err = suite.service.ResetPassword(ctx, account.ID, code, "new-password")
	assert.NoError(suite.T(), err)

	assert.Nil(suite.T(), account.ForgotPassword)
	assert.NotNil(suite.T(), account.LastPasswordResetAt)
	assert.True(suite.T(), account.ComparePassword(suite.codec, "new-password"))
	assert.False(suite.T(), account.ComparePassword(suite.codec, "testing123"), "the old password must no longer authenticate")
}

func (suite *AccountServiceTestSuite) TestResetPassword_WrongCode() {
	ctx := context.Background()
	account := suite.persistedAccount("user@test.com")
	_, err := account.RequestPasswordReset(ctx, suite.codec, nil)
	assert.NoError(suite.T(), err)

	suite.mockRepo.On("GetByID", ctx, account.ID).Return(account, nil)

	err = suite.service.ResetPassword(ctx, account.ID, "000000", "new-password")
	assert.ErrorIs(suite.T(), err, domain.ErrUnauthorized)
	assert.True(suite.T(), account.ComparePassword(suite.codec, "testing123"))
}

func (suite *AccountServiceTestSuite) TestRecordLogin_Appends() {
	ctx := context.Background()
	account := suite.persistedAccount("user@test.com")

	suite.mockRepo.On("Save", ctx, account).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	err := suite.service.RecordLogin(ctx, account, "10.0.0.1", "token-abc")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), account.LoginHistory, 1)
	assert.Equal(suite.T(), "token-abc", account.LoginHistory[0].TokenID)
}

func (suite *AccountServiceTestSuite) TestGrantPermission_InvalidRole() {
	ctx := context.Background()

	account, err := suite.service.GrantPermission(ctx, uuid.New(), uuid.New(), "superuser")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), account)
	_, ok := domain.AsValidation(err)
	assert.True(suite.T(), ok)
}

func (suite *AccountServiceTestSuite) TestGrantPermission_Success() {
	ctx := context.Background()
	account := suite.persistedAccount("user@test.com")
	workspaceID := uuid.New()

	suite.mockRepo.On("GetByID", ctx, account.ID).Return(account, nil)
	suite.mockRepo.On("Save", ctx, account).Return(nil)
	suite.publisher.On("Publish", ctx, models.EventAccountUpdated, mock.Anything).Return(nil)

	updated, err := suite.service.GrantPermission(ctx, account.ID, workspaceID, models.RoleAdmin)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), updated.Permissions, 1)
	assert.Equal(suite.T(), workspaceID, updated.Permissions[0].WorkspaceID)
	assert.Equal(suite.T(), models.RoleAdmin, updated.Permissions[0].Role)
}
