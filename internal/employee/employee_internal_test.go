package employee

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_WithTxRunsOnTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gdb).(*repository)
	qtx := repo.WithTx(tx).(*repository)

	assert.Same(t, tx, qtx.db.Statement.ConnPool)
	// The base repository keeps the pool; a rolled-back transaction must
	// not leak into later requests.
	assert.NotSame(t, tx, repo.db.Statement.ConnPool)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
