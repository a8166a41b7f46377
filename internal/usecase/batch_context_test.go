package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/outflowhq/engage-api/internal/entity"
)

func TestResolveOwnerMemoizesPositiveResult(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByCRMID", mock.Anything, "comp-1", "crm-1").Return(&entity.User{ID: "user-1"}, nil)

	bctx := newBatchContext()

	for i := 0; i < 5; i++ {
		u, err := bctx.resolveOwner(context.Background(), repo, "comp-1", "crm-1")
		assert.Nil(t, err)
		assert.Equal(t, "user-1", u.ID)
	}

	repo.AssertNumberOfCalls(t, "FindByCRMID", 1)
}

func TestResolveOwnerMemoizesNegativeResult(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByCRMID", mock.Anything, "comp-1", "crm-x").Return(nil, nil)

	bctx := newBatchContext()

	for i := 0; i < 3; i++ {
		u, err := bctx.resolveOwner(context.Background(), repo, "comp-1", "crm-x")
		assert.Nil(t, err)
		assert.Nil(t, u)
	}

	repo.AssertNumberOfCalls(t, "FindByCRMID", 1)
}

func TestResolveOwnerDoesNotCacheErrors(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByCRMID", mock.Anything, "comp-1", "crm-1").Return(nil, errors.New("timeout")).Once()
	repo.On("FindByCRMID", mock.Anything, "comp-1", "crm-1").Return(&entity.User{ID: "user-1"}, nil)

	bctx := newBatchContext()

	_, err := bctx.resolveOwner(context.Background(), repo, "comp-1", "crm-1")
	assert.NotNil(t, err)

	// Erro transiente não envenena o cache: a próxima tentativa consulta de novo
	u, err := bctx.resolveOwner(context.Background(), repo, "comp-1", "crm-1")
	assert.Nil(t, err)
	assert.Equal(t, "user-1", u.ID)
}

func TestNextOrderStartsAtOneWhenNoLinks(t *testing.T) {
	repo := new(MockLeadCadenceRepository)
	repo.On("MaxOrderBelow", mock.Anything, "user-1", "cad-1", 100).Return(0, false, nil)

	bctx := newBatchContext()

	for want := 1; want <= 4; want++ {
		got, err := bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 100)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}

	// Semeia uma vez e segue em memória
	repo.AssertNumberOfCalls(t, "MaxOrderBelow", 1)
}

func TestNextOrderSeedsFromPersistedMax(t *testing.T) {
	repo := new(MockLeadCadenceRepository)
	repo.On("MaxOrderBelow", mock.Anything, "user-1", "cad-1", 100).Return(41, true, nil)

	bctx := newBatchContext()

	got, err := bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 100)
	assert.Nil(t, err)
	assert.Equal(t, 42, got)
}

func TestNextOrderIsPerUserAndCadence(t *testing.T) {
	repo := new(MockLeadCadenceRepository)
	repo.On("MaxOrderBelow", mock.Anything, "user-1", "cad-1", 100).Return(10, true, nil)
	repo.On("MaxOrderBelow", mock.Anything, "user-2", "cad-1", 100).Return(0, false, nil)

	bctx := newBatchContext()

	a, _ := bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 100)
	b, _ := bctx.nextOrder(context.Background(), repo, "user-2", "cad-1", 100)

	assert.Equal(t, 11, a)
	assert.Equal(t, 1, b)
}

func TestNextOrderExhaustsAtCap(t *testing.T) {
	repo := new(MockLeadCadenceRepository)
	repo.On("MaxOrderBelow", mock.Anything, "user-1", "cad-1", 5).Return(3, true, nil)

	bctx := newBatchContext()

	got, err := bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 5)
	assert.Nil(t, err)
	assert.Equal(t, 4, got)

	// 5 >= cap: esgotou, e segue esgotado nas próximas chamadas
	_, err = bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 5)
	assert.Equal(t, errOrderExhausted, err)
	_, err = bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 5)
	assert.Equal(t, errOrderExhausted, err)
}

func TestNextOrderConcurrentCallersGetUniqueOrders(t *testing.T) {
	repo := new(MockLeadCadenceRepository)
	repo.On("MaxOrderBelow", mock.Anything, "user-1", "cad-1", 1000).Return(0, false, nil)

	bctx := newBatchContext()

	const callers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := bctx.nextOrder(context.Background(), repo, "user-1", "cad-1", 1000)
			assert.Nil(t, err)
			mu.Lock()
			assert.False(t, seen[got], "order %d entregue duas vezes", got)
			seen[got] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, callers)
}
