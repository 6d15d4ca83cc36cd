package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"accounthub/internal/credentials"
	"accounthub/internal/domain"
	"accounthub/internal/models"
)

type InviteRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InviteRepository
	codec   *credentials.Codec
	context context.Context
}

func (suite *InviteRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInviteRepo(mock)
	suite.codec = credentials.NewCodec(0)
	suite.context = context.Background()
}

func (suite *InviteRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInviteRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InviteRepoTestSuite))
}

func (suite *InviteRepoTestSuite) preparedInvite() *models.Invite {
	invite := models.NewInvite(uuid.New(), "invitee@test.com", "Grace", "Hopper", models.RoleUser)
	assert.NoError(suite.T(), invite.PrepareForPersist(suite.codec))
	return invite
}

func (suite *InviteRepoTestSuite) TestInsert_Success() {
	invite := suite.preparedInvite()

	suite.mock.ExpectExec(`INSERT INTO invites`).
		WithArgs(invite.ID, invite.WorkspaceID, invite.Email, invite.FirstName, invite.LastName,
			invite.Accepted, invite.Role, invite.Invitation,
			invite.CreatedAt, invite.UpdatedAt, invite.AcceptedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Insert(suite.context, invite))
}

func (suite *InviteRepoTestSuite) TestInsert_ForeignKeyViolation() {
	invite := suite.preparedInvite()

	suite.mock.ExpectExec(`INSERT INTO invites`).
		WithArgs(invite.ID, invite.WorkspaceID, invite.Email, invite.FirstName, invite.LastName,
			invite.Accepted, invite.Role, invite.Invitation,
			invite.CreatedAt, invite.UpdatedAt, invite.AcceptedAt).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "invites_workspace_id_fkey"})

	err := suite.repo.Insert(suite.context, invite)
	assert.Error(suite.T(), err)
}

func (suite *InviteRepoTestSuite) TestGetByID_Success() {
	invite := suite.preparedInvite()

	rows := pgxmock.NewRows([]string{
		"id", "workspace_id", "email", "first_name", "last_name",
		"accepted", "role", "invitation", "created_at", "updated_at", "accepted_at",
	}).AddRow(
		invite.ID, invite.WorkspaceID, invite.Email, invite.FirstName, invite.LastName,
		invite.Accepted, invite.Role, invite.Invitation,
		invite.CreatedAt, invite.UpdatedAt, invite.AcceptedAt,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM invites WHERE id = \$1`).
		WithArgs(invite.ID).
		WillReturnRows(rows)

	found, err := suite.repo.GetByID(suite.context, invite.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invite.ID, found.ID)
	assert.Equal(suite.T(), invite.WorkspaceID, found.WorkspaceID)
	assert.Equal(suite.T(), invite.Email, found.Email)
	assert.NotNil(suite.T(), found.Invitation)
}

func (suite *InviteRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM invites WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	invite, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
	assert.Nil(suite.T(), invite)
}

func (suite *InviteRepoTestSuite) TestFindOutstanding_SkipsAccepted() {
	workspaceID := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM invites WHERE workspace_id = \$1 AND email = \$2 AND NOT accepted`).
		WithArgs(workspaceID, "invitee@test.com").
		WillReturnError(pgx.ErrNoRows)

	invite, err := suite.repo.FindOutstanding(suite.context, workspaceID, "invitee@test.com")
	assert.ErrorIs(suite.T(), err, domain.ErrNotFound)
	assert.Nil(suite.T(), invite)
}

func (suite *InviteRepoTestSuite) TestSave_Success() {
	invite := suite.preparedInvite()

	suite.mock.ExpectExec(`UPDATE invites`).
		WithArgs(invite.ID, invite.Email, invite.FirstName, invite.LastName,
			invite.Accepted, invite.Role, invite.Invitation,
			invite.UpdatedAt, invite.AcceptedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Save(suite.context, invite))
}

func (suite *InviteRepoTestSuite) TestSave_MissingRow() {
	invite := suite.preparedInvite()

	suite.mock.ExpectExec(`UPDATE invites`).
		WithArgs(invite.ID, invite.Email, invite.FirstName, invite.LastName,
			invite.Accepted, invite.Role, invite.Invitation,
			invite.UpdatedAt, invite.AcceptedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Save(suite.context, invite), domain.ErrNotFound)
}

func (suite *InviteRepoTestSuite) TestDelete_ScopedByWorkspace() {
	workspaceID := uuid.New()
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM invites WHERE workspace_id = \$1 AND id = \$2`).
		WithArgs(workspaceID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, workspaceID, id))
}

func (suite *InviteRepoTestSuite) TestDelete_WrongWorkspace() {
	workspaceID := uuid.New()
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM invites WHERE workspace_id = \$1 AND id = \$2`).
		WithArgs(workspaceID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, workspaceID, id), domain.ErrNotFound)
}

func (suite *InviteRepoTestSuite) TestPruneStale_OnlyUnaccepted() {
	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	suite.mock.ExpectExec(`DELETE FROM invites WHERE NOT accepted AND created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	pruned, err := suite.repo.PruneStale(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), pruned)
}

func (suite *InviteRepoTestSuite) TestClean_DeletesEverything() {
	suite.mock.ExpectExec(`DELETE FROM invites`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	assert.NoError(suite.T(), suite.repo.Clean(suite.context))
}
