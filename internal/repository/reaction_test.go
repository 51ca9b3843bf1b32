package repository

import (
	"context"
	"regexp"
	"testing"

	"ripple/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_Find_NotFoundIsNil(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE user_id = $1 AND target_id = $2 AND target_type = $3`)).
		WithArgs(1, 2, models.TargetPost, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	reaction, err := repo.Find(context.Background(), 1, 2, models.TargetPost)
	require.NoError(t, err)
	assert.Nil(t, reaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Find_ReturnsRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE user_id = $1 AND target_id = $2 AND target_type = $3`)).
		WithArgs(1, 2, models.TargetComment, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_id", "target_type", "type"}).
			AddRow(9, 1, 2, models.TargetComment, "Haha"))

	reaction, err := repo.Find(context.Background(), 1, 2, models.TargetComment)
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, "Haha", reaction.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Insert_Created(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	created, err := repo.Insert(context.Background(), &models.Reaction{
		UserID: 1, TargetID: 2, TargetType: models.TargetPost, Type: "Like",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_Insert_ConflictIsNotCreated(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	// ON CONFLICT DO NOTHING: the losing insert affects zero rows.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.Insert(context.Background(), &models.Reaction{
		UserID: 1, TargetID: 2, TargetType: models.TargetPost, Type: "Like",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_IncrementLikes_DispatchesOnTargetType(t *testing.T) {
	tests := []struct {
		targetType string
		table      string
	}{
		{models.TargetPost, "posts"},
		{models.TargetComment, "comments"},
	}

	for _, tt := range tests {
		t.Run(tt.targetType, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewReactionRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "`+tt.table+`" SET "likes_count"=likes_count + $1`)).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := repo.IncrementLikes(context.Background(), 5, tt.targetType, 1)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReactionRepository_IncrementLikes_UnknownTarget(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewReactionRepository(db)

	err := repo.IncrementLikes(context.Background(), 5, "stream", 1)
	assert.Error(t, err)
}

func TestReactionRepository_ListRecent_NewestFirstLimited(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE target_id = $1 AND target_type = $2 ORDER BY created_at DESC LIMIT $3`)).
		WithArgs(7, models.TargetComment, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "user_id"}).
			AddRow(3, "Haha", 101).
			AddRow(2, "Like", 102).
			AddRow(1, "Haha", 103))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(101, "user101").
			AddRow(102, "user102").
			AddRow(103, "user103"))

	reactions, err := repo.ListRecent(context.Background(), 7, models.TargetComment, 5)
	require.NoError(t, err)
	require.Len(t, reactions, 3)
	assert.Equal(t, "Haha", reactions[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
