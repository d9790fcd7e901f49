package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pqArrayArg matches the driver value produced by pq.Array for the given strings.
type pqArrayArg []string

func (a pqArrayArg) Match(v driver.Value) bool {
	want, err := pq.Array([]string(a)).Value()
	return err == nil && v == want
}

var notificationColumns = []string{"id", "homework_name", "status", "message", "sent_at"}

func TestSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := &homework.Notification{HomeworkName: "hw1", Status: homework.StatusApproved, Message: "msg", SentAt: sentAt}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO homework_notifications`)).
		WithArgs("hw1", "approved", "msg", sentAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	repo := NewPostgresNotificationRepository(db)
	require.NoError(t, repo.Save(context.Background(), n))
	assert.Equal(t, int64(17), n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cause := errors.New("relation does not exist")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO homework_notifications`)).WillReturnError(cause)

	err = NewPostgresNotificationRepository(db).Save(context.Background(), &homework.Notification{})
	assert.ErrorIs(t, err, cause)
}

func TestListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t1 := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM homework_notifications`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(int64(2), "hw2", "rejected", "m2", t1).
			AddRow(int64(1), "hw1", "reviewing", "m1", t0))

	items, err := NewPostgresNotificationRepository(db).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, &homework.Notification{ID: 2, HomeworkName: "hw2", Status: homework.StatusRejected, Message: "m2", SentAt: t1}, items[0])
	assert.Equal(t, homework.StatusReviewing, items[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = ANY($1::varchar[])`)).
		WithArgs(pqArrayArg{"approved", "rejected"}, 10).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(int64(3), "hw3", "approved", "m3", time.Now()))

	items, err := NewPostgresNotificationRepository(db).ListByStatuses(context.Background(),
		[]homework.Status{homework.StatusApproved, homework.StatusRejected}, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hw3", items[0].HomeworkName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStatuses_EmptyFallsBackToRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY sent_at DESC, id DESC`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	items, err := NewPostgresNotificationRepository(db).ListByStatuses(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_InvalidLimit(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresNotificationRepository(db)
	_, err = repo.ListRecent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	_, err = repo.ListByStatuses(context.Background(), []homework.Status{homework.StatusApproved}, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS homework_notifications`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS homework_notifications_sent_at_idx`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
