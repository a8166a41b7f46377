package usecase

import (
	"strings"

	"github.com/outflowhq/engage-api/internal/entity"
)

// CandidateRecord é o registro externo já traduzido para os atributos
// canônicos, ainda não persistido. Vive só durante o batch.
type CandidateRecord struct {
	Name        string
	Title       string
	LinkedIn    string
	AccountName string
	OwnerCRMID  string
	ExternalID  string
	Emails      []entity.TypedEmail
	Phones      []entity.TypedPhone
}

// MapRecord aplica o FieldMap do tenant a uma linha crua. Não tem caminho de
// erro: campo ausente vira vazio e quem decide a relevância é a validação.
func MapRecord(raw RawRecord, fm *entity.FieldMap) *CandidateRecord {
	c := &CandidateRecord{
		Name:        pick(raw, fm.Name),
		Title:       pick(raw, fm.Title),
		LinkedIn:    pick(raw, fm.LinkedIn),
		AccountName: pick(raw, fm.Account),
		OwnerCRMID:  pick(raw, fm.OwnerID),
		ExternalID:  pick(raw, fm.ExternalID),
	}

	for _, src := range fm.Emails {
		if v := pick(raw, src.SourceKey); v != "" {
			c.Emails = append(c.Emails, entity.TypedEmail{Type: src.Type, Email: v})
		}
	}

	for _, src := range fm.Phones {
		if v := pick(raw, src.SourceKey); v != "" {
			c.Phones = append(c.Phones, entity.TypedPhone{Type: src.Type, Phone: v})
		}
	}

	return c
}

func pick(raw RawRecord, sourceKey string) string {
	if sourceKey == "" {
		return ""
	}
	return strings.TrimSpace(raw[sourceKey])
}

// IsEmpty: linha inteiramente vazia depois do mapeamento. Essas são puladas
// em silêncio — não contam como sucesso nem como erro.
func (c *CandidateRecord) IsEmpty() bool {
	return c.Name == "" &&
		c.Title == "" &&
		c.LinkedIn == "" &&
		c.AccountName == "" &&
		c.OwnerCRMID == "" &&
		c.ExternalID == "" &&
		len(c.Emails) == 0 &&
		len(c.Phones) == 0
}
