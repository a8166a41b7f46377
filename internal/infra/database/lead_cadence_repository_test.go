package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/outflowhq/engage-api/internal/entity"
)

func TestLeadCadenceRepositoryCreate(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)
	link := entity.NewLeadCadence("lead-1", "cad-1", "user-1", 7)

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO lead_cadences")).
		WithArgs(
			link.ID, "lead-1", "cad-1", "user-1",
			entity.LeadCadenceStatusNotStarted, 7,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), link)

	assert.Nil(t, err)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryCreateDuplicate(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO lead_cadences")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "lead_cadences_lead_cadence_key"})

	err = repo.Create(context.Background(), entity.NewLeadCadence("lead-1", "cad-1", "user-1", 1))

	assert.Equal(t, entity.ErrLinkAlreadyExists, err)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryMaxOrderBelow(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX("order"), 0)`)).
		WithArgs("user-1", "cad-1", 100000).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(42))

	max, found, err := repo.MaxOrderBelow(context.Background(), "user-1", "cad-1", 100000)

	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, max)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryMaxOrderBelowEmpty(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX("order"), 0)`)).
		WithArgs("user-1", "cad-1", 100000).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	_, found, err := repo.MaxOrderBelow(context.Background(), "user-1", "cad-1", 100000)

	assert.Nil(t, err)
	assert.False(t, found)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryHasLink(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	mockDB.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("lead-1", "cad-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := repo.HasLink(context.Background(), "lead-1", "cad-1")

	assert.Nil(t, err)
	assert.True(t, has)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryStopActiveForLead(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	mockDB.ExpectExec(regexp.QuoteMeta("UPDATE lead_cadences")).
		WithArgs(
			entity.LeadCadenceStatusStopped, "lead-1", "cad-atual",
			entity.LeadCadenceStatusNotStarted, entity.LeadCadenceStatusInProgress,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = repo.StopActiveForLead(context.Background(), "lead-1", "cad-atual")

	assert.Nil(t, err)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadCadenceRepositoryCountByCadence(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadCadenceRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "count"}).
		AddRow("user-1", 12).
		AddRow("user-2", 3)

	mockDB.ExpectQuery(regexp.QuoteMeta("GROUP BY user_id")).
		WithArgs("cad-1", entity.LeadCadenceStatusStopped).
		WillReturnRows(rows)

	counts, err := repo.CountByCadence(context.Background(), "cad-1")

	assert.Nil(t, err)
	assert.Equal(t, map[string]int{"user-1": 12, "user-2": 3}, counts)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}
