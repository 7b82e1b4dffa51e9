package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/vicharak/vicharak-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Exercises the SQL the collaborator repository issues against the production
// MySQL dialector, without a live database.
func setupMockRepo(t *testing.T) (CollaboratorRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return NewCollaboratorRepository(db), mock
}

func TestGormCollaboratorRepository_Find(t *testing.T) {
	repo, mock := setupMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "vichar_id", "owner_id", "collaborator_id", "role_id"}).
		AddRow(7, 3, 1, 2, nil)
	mock.ExpectQuery("SELECT \\* FROM `collaborators` WHERE vichar_id = \\? AND collaborator_id = \\?").
		WithArgs(3, 2, 1).
		WillReturnRows(rows)

	collaborator, err := repo.Find(3, 2)
	require.NoError(t, err)
	require.EqualValues(t, 7, collaborator.ID)
	require.EqualValues(t, 3, collaborator.VicharID)
	require.EqualValues(t, 2, collaborator.CollaboratorID)
	require.Nil(t, collaborator.RoleID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCollaboratorRepository_Find_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery("SELECT \\* FROM `collaborators` WHERE vichar_id = \\? AND collaborator_id = \\?").
		WithArgs(3, 99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Find(3, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCollaboratorRepository_Create(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `collaborators`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	roleID := uint64(5)
	collaborator := &models.Collaborator{
		VicharID:       3,
		OwnerID:        1,
		CollaboratorID: 2,
		RoleID:         &roleID,
	}
	require.NoError(t, repo.Create(collaborator))
	require.EqualValues(t, 7, collaborator.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCollaboratorRepository_Create_InsertFails(t *testing.T) {
	repo, mock := setupMockRepo(t)

	insertErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `collaborators`").
		WillReturnError(insertErr)
	mock.ExpectRollback()

	err := repo.Create(&models.Collaborator{VicharID: 3, OwnerID: 1, CollaboratorID: 2})
	require.ErrorIs(t, err, insertErr)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCollaboratorRepository_Delete(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `collaborators` WHERE vichar_id = \\? AND collaborator_id = \\?").
		WithArgs(3, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(3, 2))

	require.NoError(t, mock.ExpectationsWereMet())
}
