package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"gameslibrary/internal/auth"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var day = time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

func TestGameRepositoryList(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM games ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "release_date", "genre", "developer", "platform", "price"}).
			AddRow(1, "Halo", "Shooter", day, "Action", "Bungie", "Xbox", 59.99).
			AddRow(2, "Myst", "Puzzle", day, "Puzzle", "Cyan", "PC", 9.5))

	games, err := GameRepository{DB: db}.List(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Halo", games[0].Title)
	assert.Equal(t, 9.5, games[1].Price)
	assert.Equal(t, day, games[1].ReleaseDate)
}

func TestGameRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM games WHERE id = \\?").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := GameRepository{DB: db}.GetByID(context.Background(), 9)
	assert.True(t, domain.IsNotFound(err))
}

func TestGameRepositoryListError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM games").WillReturnError(boom)

	_, err := GameRepository{DB: db}.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReviewRepositoryListByGame(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM reviews WHERE game_id = \\?").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "game_id", "rating", "comment"}).
			AddRow(10, "7", 3, 5, "great"))

	reviews, err := ReviewRepository{DB: db}.ListByGame(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []models.Review{{ID: 10, UserID: "7", GameID: 3, Rating: 5, Comment: "great"}}, reviews)
}

func TestReviewRepositoryListByUnknownGameIsEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM reviews WHERE game_id").WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "game_id", "rating", "comment"}))

	reviews, err := ReviewRepository{DB: db}.ListByGame(context.Background(), 404)
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestPurchaseRepositoryGetByID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM purchases WHERE id = \\?").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "game_id", "purchase_date"}).
			AddRow(5, "7", 1, day))

	p, err := PurchaseRepository{DB: db}.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.Purchase{ID: 5, UserID: "7", GameID: 1, PurchaseDate: day}, p)
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "security_stamp", "created_at", "updated_at"}).
		AddRow(42, "alice", "a@b.com", "$2a$hash", "client", "stamp-1", day, day)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE email = \\?").WithArgs("a@b.com").WillReturnRows(userRow())

	u, err := UserRepository{DB: db}.FindByEmail(context.Background(), " a@b.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "stamp-1", u.SecurityStamp)
}

func TestUserRepositoryFindByEmailEmpty(t *testing.T) {
	_, err := UserRepository{}.FindByEmail(context.Background(), "  ")
	assert.True(t, domain.IsNotFound(err))
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "a@b.com", sqlmock.AnyArg(), models.RoleClient, sqlmock.AnyArg(), day, day).
		WillReturnResult(sqlmock.NewResult(42, 1))

	repo := UserRepository{DB: db, Now: func() time.Time { return day }}
	u, err := repo.Create(context.Background(), models.Identity{Username: "alice", Email: "a@b.com"}, "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.NotEmpty(t, u.SecurityStamp)
	assert.True(t, auth.ComparePassword(u.PasswordHash, "Str0ng!pass"))
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com'"})

	_, err := UserRepository{DB: db}.Create(context.Background(), models.Identity{Username: "alice", Email: "a@b.com"}, "Str0ng!pass")
	assert.True(t, domain.IsConflict(err))
}

func TestUserRepositoryChangePassword(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "jti-1", day, int64(42), "stamp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := UserRepository{DB: db, Now: func() time.Time { return day }}
	err := repo.ChangePassword(context.Background(), models.Identity{ID: 42, SecurityStamp: "stamp-1"}, "jti-1", "N3w!password")
	assert.NoError(t, err)
}

func TestUserRepositoryChangePasswordWithoutResetCredential(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("COALESCE\\(\\?, last_reset_jti\\)").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, day, int64(42), "stamp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := UserRepository{DB: db, Now: func() time.Time { return day }}
	err := repo.ChangePassword(context.Background(), models.Identity{ID: 42, SecurityStamp: "stamp-1"}, "", "N3w!password")
	assert.NoError(t, err)
}

func TestUserRepositoryChangePasswordStaleStamp(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := UserRepository{DB: db}.ChangePassword(context.Background(), models.Identity{ID: 42, SecurityStamp: "old"}, "jti-1", "N3w!password")
	assert.True(t, domain.IsConflict(err))
}
