package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigratePostgres(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS owners").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := MigratePostgres(context.Background(), dbMock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMigratePostgres_Error(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer dbMock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS owners").
		WillReturnError(errors.New("permission denied"))

	err = MigratePostgres(context.Background(), dbMock)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "create schema: permission denied" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInitPostgres_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := InitPostgres(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	if err == nil {
		t.Fatal("expected error for unreachable database")
	}
}
