package usecase

// Kinds de erro por registro. O caller usa o kind para decidir o que
// re-tentar: ACCESS e ALREADY_PRESENT não adiantam repetir.
const (
	ErrKindValidation     = "VALIDATION"
	ErrKindOwnerNotFound  = "OWNER_NOT_FOUND"
	ErrKindCadenceAccess  = "CADENCE_ACCESS"
	ErrKindAlreadyPresent = "ALREADY_PRESENT"
	ErrKindOrderExhausted = "ORDER_EXHAUSTED"
	ErrKindPersist        = "PERSIST_ERROR"
)

// DomainError: falha de regra de negócio no setup do batch (cadência
// inexistente, field map ausente). Aborta o batch antes de qualquer janela.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: falha de infraestrutura no setup (connect-service fora,
// banco indisponível). Também aborta o batch inteiro.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
