package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/outflowhq/engage-api/internal/entity"
)

var errOrderExhausted = errors.New("cadence order limit reached for this user")

type ownerEntry struct {
	user *entity.User // nil = CRM id não resolveu para ninguém (cache negativo)
}

type orderKey struct {
	userID    string
	cadenceID string
}

// batchContext carrega o estado mutável privado de UMA invocação do batch:
// o cache de resolução de owner e o último order conhecido por
// (user, cadence). Morre junto com o batch, nunca é compartilhado entre
// batches concorrentes.
type batchContext struct {
	mu     sync.Mutex
	owners map[string]ownerEntry
	orders map[orderKey]int // próximo order a entregar
}

func newBatchContext() *batchContext {
	return &batchContext{
		owners: make(map[string]ownerEntry),
		orders: make(map[orderKey]int),
	}
}

// resolveOwner memoiza resultado positivo E negativo: owners repetidos dentro
// do batch custam uma consulta só. Erro de banco não é memoizado.
func (b *batchContext) resolveOwner(ctx context.Context, repo UserRepositoryInterface, companyID, crmID string) (*entity.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry, ok := b.owners[crmID]; ok {
		return entry.user, nil
	}

	user, err := repo.FindByCRMID(ctx, companyID, crmID)
	if err != nil {
		return nil, err
	}

	b.owners[crmID] = ownerEntry{user: user}
	return user, nil
}

// nextOrder entrega o próximo order do par (user, cadence). Na primeira
// referência busca o maior order persistido abaixo do teto e semeia o cache;
// depois só incrementa em memória. Orders entregues nunca são reutilizados,
// mesmo que a persistência do registro falhe em seguida.
func (b *batchContext) nextOrder(ctx context.Context, repo LeadCadenceRepositoryInterface, userID, cadenceID string, max int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := orderKey{userID: userID, cadenceID: cadenceID}

	next, ok := b.orders[k]
	if !ok {
		// Valores >= max são tratados como ausentes pelo repositório,
		// então nunca voltam a ser entregues.
		last, found, err := repo.MaxOrderBelow(ctx, userID, cadenceID, max)
		if err != nil {
			return 0, err
		}
		next = 1
		if found {
			next = last + 1
		}
	}

	if next >= max {
		b.orders[k] = next
		return 0, errOrderExhausted
	}

	b.orders[k] = next + 1
	return next, nil
}
