package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-horarios/timetable-api/internal/models"
)

func newGroupRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGroupRepositoryListByCycleKeepsInsertionOrder(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject_id", "professor_id", "classroom_id", "cycle_id", "semester", "created_at"}).
		AddRow("g-1", "s-1", "p-1", "c-1", "cycle-1", 1, time.Now()).
		AddRow("g-2", "s-2", "p-2", "c-2", "cycle-1", 1, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM groups WHERE cycle_id = $1 ORDER BY created_at ASC, id ASC")).
		WithArgs("cycle-1").
		WillReturnRows(rows)

	groups, err := repo.ListByCycle(context.Background(), "cycle-1")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "g-1", groups[0].ID)
	assert.Equal(t, "g-2", groups[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReplaceForCycle(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM groups")).
		WithArgs("cycle-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO groups")).
		WithArgs("g-1", "s-1", "p-1", "c-1", "cycle-1", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	groups := []models.Group{
		{ID: "g-1", SubjectID: "s-1", ProfessorID: "p-1", ClassroomID: "c-1", CycleID: "cycle-1", Semester: 1},
	}
	require.NoError(t, repo.ReplaceForCycle(context.Background(), "cycle-1", groups))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReplaceRollsBackOnDeleteFailure(t *testing.T) {
	db, mock, cleanup := newGroupRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM groups")).
		WithArgs("cycle-1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ReplaceForCycle(context.Background(), "cycle-1", nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
