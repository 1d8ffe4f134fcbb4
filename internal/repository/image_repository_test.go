package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestImageInsertAssignsNextPositionUnderLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(MAX(position)+1, 0) FROM vehicle_images WHERE auction_id=? FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO vehicle_images (auction_id, file_name, position) VALUES (?,?,?)")).
		WithArgs(7, "cover.jpg", 3).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	id, err := NewImageRepo(db).Insert(context.Background(), 7, "cover.jpg")
	require.NoError(t, err)
	require.Equal(t, uint64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageInsertFirstImageGetsPositionZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(MAX(position)+1, 0) FROM vehicle_images WHERE auction_id=? FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO vehicle_images (auction_id, file_name, position) VALUES (?,?,?)")).
		WithArgs(7, "first.jpg", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := NewImageRepo(db).Insert(context.Background(), 7, "first.jpg")
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageInsertRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("insert failed")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COALESCE(MAX(position)+1, 0) FROM vehicle_images WHERE auction_id=? FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO vehicle_images (auction_id, file_name, position) VALUES (?,?,?)")).
		WithArgs(7, "cover.jpg", 1).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err = NewImageRepo(db).Insert(context.Background(), 7, "cover.jpg")
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
