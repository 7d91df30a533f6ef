package gormstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type widget struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Color string
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func red() query.Clause[widget] {
	return query.Where[widget](sq.Eq{"color": "red"}, func(w widget) bool { return w.Color == "red" })
}

func TestQueryable_CountAppliesClausesOnly(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[widget](db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "widgets" WHERE color = \$1`).
		WithArgs("red").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))

	q := table.Query().Where(red()).
		Order(query.OrderByKey("name", func(w widget) string { return w.Name }), query.Desc).
		Page(20, 10)
	n, err := q.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(23), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryable_FindOrdersThenPages(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[widget](db)

	mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE color = \$1 ORDER BY name DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).
			AddRow(3, "w003", "red").
			AddRow(2, "w002", "red"))

	items, err := table.Query().Where(red()).
		Order(query.OrderByKey("name", func(w widget) string { return w.Name }), query.Desc).
		Page(20, 10).
		Find(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: 3, Name: "w003", Color: "red"}, {ID: 2, Name: "w002", Color: "red"}}, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryable_FirstNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	table := NewTable[widget](db)

	mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}))

	item, err := table.Query().Where(table.KeyClause(42)).First(context.Background())

	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryable_ClauseWithoutCondition(t *testing.T) {
	db, _ := newMockDB(t)
	table := NewTable[widget](db)

	onlyMemory := query.Clause[widget]{Match: func(widget) bool { return true }}
	_, err := table.Query().Where(onlyMemory).Find(context.Background())

	assert.ErrorIs(t, err, ErrNoCondition)
}

func TestBackend_CommitIsAtomic(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "every change applied",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO "widgets"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectExec(`DELETE FROM "widgets"`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "failing change rolls back the unit",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO "widgets"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectExec(`DELETE FROM "widgets"`).
					WillReturnError(errors.New("foreign key violation"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mock(mock)

			unit := repository.NewUnit(NewBackend(db))
			repo := repository.New[widget]("widget", NewTable[widget](db), unit)
			repo.Insert(&widget{Name: "new", Color: "red"})
			repo.Delete(&widget{ID: 7})

			err := repo.Save(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, repository.ErrCommitFailed)
			} else {
				assert.NoError(t, err)
			}
			assert.Zero(t, unit.Pending())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
