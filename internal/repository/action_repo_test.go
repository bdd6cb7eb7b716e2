package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"delivery_kitchen/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAppendBatch_InsertsInOrder(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewActionSQLite(db)

	actions := []models.Action{
		{Timestamp: 100, ID: "a1", Action: models.ActionPlace, Target: models.Heater},
		{Timestamp: 200, ID: "a1", Action: models.ActionPickup, Target: models.Heater},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertActionSQL))
	prep.ExpectExec().WithArgs("run-1", int64(100), "a1", "place", "heater").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("run-1", int64(200), "a1", "pickup", "heater").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.AppendBatch(ctx(t), "run-1", actions); err != nil {
		t.Fatalf("AppendBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppendBatch_EmptyIsNoop(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	if err := NewActionSQLite(db).AppendBatch(ctx(t), "run-1", nil); err != nil {
		t.Fatalf("AppendBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppendBatch_RollsBackOnError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewActionSQLite(db)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(insertActionSQL)).
		ExpectExec().WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := repo.AppendBatch(ctx(t), "run-1", []models.Action{
		{Timestamp: 1, ID: "x", Action: models.ActionPlace, Target: models.Shelf},
	})
	if err == nil || !strings.Contains(err.Error(), "constraint failed") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestActionList_NoFilters(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewActionSQLite(db)

	rows := sqlmock.NewRows([]string{"ts_us", "order_id", "action", "target"}).
		AddRow(int64(10), "a", "place", "shelf").
		AddRow(int64(20), "a", "move", "cooler")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ts_us, order_id, action, target FROM kitchen_actions ORDER BY seq ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), "", time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []models.Action{
		{Timestamp: 10, ID: "a", Action: models.ActionPlace, Target: models.Shelf},
		{Timestamp: 20, ID: "a", Action: models.ActionMove, Target: models.Cooler},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestActionList_WithFilters(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewActionSQLite(db)

	from := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	to := from.Add(time.Minute)

	query := `SELECT ts_us, order_id, action, target FROM kitchen_actions WHERE run_id = ? AND ts_us >= ? AND ts_us <= ? AND action = ? ORDER BY seq ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("run-9", from.UnixMicro(), to.UnixMicro(), "discard").
		WillReturnRows(sqlmock.NewRows([]string{"ts_us", "order_id", "action", "target"}).
			AddRow(from.UnixMicro()+5, "b", "discard", "shelf"))

	got, err := repo.List(ctx(t), "run-9", from, to, " Discard ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Action != models.ActionDiscard {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestActionList_QueryError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)

	mock.ExpectQuery("SELECT ts_us").WillReturnError(errors.New("locked"))

	if _, err := NewActionSQLite(db).List(ctx(t), "", time.Time{}, time.Time{}, ""); err == nil {
		t.Fatal("expected error")
	}
}
