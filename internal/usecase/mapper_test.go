package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outflowhq/engage-api/internal/entity"
)

func TestMapRecordTranslatesByFieldMap(t *testing.T) {
	fm := testFieldMap()
	raw := RawRecord{
		"Full Name": "  Maria Souza  ",
		"Title":     "Head de Vendas",
		"LinkedIn":  "https://linkedin.com/in/maria-souza",
		"Company":   "Acme Ltda",
		"Owner":     "crm-owner-1",
		"Id":        "sf-123",
		"Email":     "maria@acme.com.br",
		"Phone":     "+55 11 98888-7777",
	}

	c := MapRecord(raw, fm)

	assert.Equal(t, "Maria Souza", c.Name) // espaços nas bordas caem fora
	assert.Equal(t, "Head de Vendas", c.Title)
	assert.Equal(t, "Acme Ltda", c.AccountName)
	assert.Equal(t, "crm-owner-1", c.OwnerCRMID)
	assert.Equal(t, "sf-123", c.ExternalID)
	assert.Equal(t, []entity.TypedEmail{{Type: "work", Email: "maria@acme.com.br"}}, c.Emails)
	assert.Equal(t, []entity.TypedPhone{{Type: "mobile", Phone: "+55 11 98888-7777"}}, c.Phones)
}

func TestMapRecordIgnoresUnmappedColumns(t *testing.T) {
	fm := testFieldMap()
	raw := RawRecord{
		"Full Name":       "João",
		"Coluna Qualquer": "não mapeada",
		"Id":              "sf-1",
	}

	c := MapRecord(raw, fm)

	assert.Equal(t, "João", c.Name)
	assert.Equal(t, "sf-1", c.ExternalID)
	assert.Empty(t, c.Title)
	assert.Empty(t, c.Emails)
}

func TestMapRecordSkipsBlankMultiValues(t *testing.T) {
	fm := testFieldMap()
	raw := RawRecord{
		"Full Name": "João",
		"Email":     "   ",
		"Phone":     "",
	}

	c := MapRecord(raw, fm)

	// Valor em branco não vira entrada tipada vazia
	assert.Empty(t, c.Emails)
	assert.Empty(t, c.Phones)
}

func TestCandidateIsEmpty(t *testing.T) {
	fm := testFieldMap()

	empty := MapRecord(RawRecord{"Full Name": "  ", "Sem Mapa": "x"}, fm)
	assert.True(t, empty.IsEmpty())

	onlyPhone := MapRecord(RawRecord{"Phone": "11988887777"}, fm)
	assert.False(t, onlyPhone.IsEmpty())
}
