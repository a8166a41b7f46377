package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/outflowhq/engage-api/internal/entity"
)

func newTestLead() *entity.Lead {
	lead := entity.NewLead("comp-1", "user-1", "sf-123", entity.ExternalTypeSalesforce)
	lead.Name = "Maria Souza"
	lead.Title = "Head de Vendas"
	lead.Emails = []entity.TypedEmail{{Type: "work", Email: "maria@acme.com.br"}}
	lead.Phones = []entity.TypedPhone{{Type: "mobile", Phone: "11988887777"}}
	return lead
}

func TestLeadRepositoryCreate(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	lead := newTestLead()

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO leads")).
		WithArgs(
			lead.ID, lead.CompanyID, lead.UserID, lead.ExternalID, lead.ExternalType,
			lead.Name, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), lead)

	assert.Nil(t, err)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadRepositoryCreateDuplicate(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO leads")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "leads_company_external_key"})

	err = repo.Create(context.Background(), newTestLead())

	// Violação de unique vira o erro de domínio, não o erro cru do driver
	assert.Equal(t, entity.ErrLeadAlreadyExists, err)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadRepositoryFindByExternalID(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "company_id", "user_id", "external_id", "external_type",
		"name", "title", "linkedin", "account_name", "emails", "phones",
		"created_at", "updated_at",
	}).AddRow(
		"lead-1", "comp-1", "user-1", "sf-123", "salesforce",
		"Maria Souza", "Head de Vendas", "", "Acme",
		[]byte(`[{"type":"work","email":"maria@acme.com.br"}]`),
		[]byte(`[{"type":"mobile","phone":"11988887777"}]`),
		now, now,
	)

	mockDB.ExpectQuery(regexp.QuoteMeta("FROM leads")).
		WithArgs("comp-1", "sf-123", "salesforce").
		WillReturnRows(rows)

	lead, err := repo.FindByExternalID(context.Background(), "comp-1", "sf-123", "salesforce")

	assert.Nil(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, "Maria Souza", lead.Name)
	assert.Equal(t, []entity.TypedEmail{{Type: "work", Email: "maria@acme.com.br"}}, lead.Emails)
	assert.Equal(t, []entity.TypedPhone{{Type: "mobile", Phone: "11988887777"}}, lead.Phones)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}

func TestLeadRepositoryFindByExternalIDNotFound(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	assert.Nil(t, err)
	defer db.Close()

	repo := NewLeadRepository(db)

	mockDB.ExpectQuery(regexp.QuoteMeta("FROM leads")).
		WithArgs("comp-1", "nao-existe", "salesforce").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	lead, err := repo.FindByExternalID(context.Background(), "comp-1", "nao-existe", "salesforce")

	// Ausência é (nil, nil): resultado normal do dedup
	assert.Nil(t, err)
	assert.Nil(t, lead)
	assert.Nil(t, mockDB.ExpectationsWereMet())
}
