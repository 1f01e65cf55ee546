package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSchemaDeclaresUniqueKeys(t *testing.T) {
	for _, want := range []string{"UNIQUE (user_id, date)", "UNIQUE (user_id, year, month)", "ON DELETE RESTRICT"} {
		if !strings.Contains(schemaSQL, want) {
			t.Errorf("schema is missing %q", want)
		}
	}
}

func TestApplySchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(schemaSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}

	mock.ExpectExec(schemaSQL).WillReturnError(errors.New("permission denied"))
	if err := ApplySchema(context.Background(), db); err == nil {
		t.Fatal("expected error")
	}
}
