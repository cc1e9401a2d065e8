package store

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-registry/config"
	"product-registry/models"
)

type registryFactory func(t *testing.T) Registry

func newMemory(t *testing.T) Registry {
	return NewMemoryRegistry()
}

func newSQLite(t *testing.T) Registry {
	t.Helper()
	db, err := config.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRegistry(db)
}

var backends = map[string]registryFactory{
	"memory": newMemory,
	"sqlite": newSQLite,
}

func forEachBackend(t *testing.T, fn func(t *testing.T, reg Registry)) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func seeded(t *testing.T, reg Registry) {
	t.Helper()
	n, err := Seed(context.Background(), reg, DefaultProducts)
	require.NoError(t, err)
	require.Equal(t, len(DefaultProducts), n)
}

func TestRegistry_SeededScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		got, err := reg.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: 1, Name: "Laptop", Price: 1000}, got)

		require.NoError(t, reg.Update(ctx, 2, "Wireless Mouse", 25))
		got, err = reg.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: 2, Name: "Wireless Mouse", Price: 25}, got)

		require.NoError(t, reg.Delete(ctx, 1))
		_, err = reg.GetByID(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = reg.Create(ctx, models.Product{ID: 3, Name: "Keyboard", Price: 50})
		require.NoError(t, err)

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Product{
			{ID: 2, Name: "Wireless Mouse", Price: 25},
			{ID: 3, Name: "Keyboard", Price: 50},
		}, all)
	})
}

func TestRegistry_CreateThenGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		p := models.Product{ID: 0, Name: "Cable", Price: 0}

		created, err := reg.Create(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, p, created)

		got, err := reg.GetByID(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})
}

func TestRegistry_CreateConflict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		_, err := reg.Create(ctx, models.Product{ID: 1, Name: "Tablet", Price: 300})
		assert.ErrorIs(t, err, ErrConflict)

		got, err := reg.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", got.Name, "conflicting create must not overwrite")
	})
}

func TestRegistry_CreateInvalid(t *testing.T) {
	cases := map[string]models.Product{
		"negative id":    {ID: -1, Name: "x", Price: 1},
		"blank name":     {ID: 5, Name: "  ", Price: 1},
		"negative price": {ID: 5, Name: "x", Price: -0.01},
		"NaN price":      {ID: 7, Name: "x", Price: math.NaN()},
		"+Inf price":     {ID: 8, Name: "x", Price: math.Inf(1)},
		"-Inf price":     {ID: 9, Name: "x", Price: math.Inf(-1)},
	}
	forEachBackend(t, func(t *testing.T, reg Registry) {
		for name, p := range cases {
			_, err := reg.Create(context.Background(), p)
			assert.ErrorIs(t, err, ErrInvalidInput, name)
		}
		n, err := reg.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRegistry_UpdateKeepsIDAndOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		require.NoError(t, reg.Update(ctx, 1, "Gaming Laptop", 1500))

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, models.Product{ID: 1, Name: "Gaming Laptop", Price: 1500}, all[0])
		assert.Equal(t, models.Product{ID: 2, Name: "Mouse", Price: 20}, all[1])
	})
}

func TestRegistry_UpdateErrors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		assert.ErrorIs(t, reg.Update(ctx, 42, "Ghost", 1), ErrNotFound)
		assert.ErrorIs(t, reg.Update(ctx, 1, "", 1), ErrInvalidInput)
		assert.ErrorIs(t, reg.Update(ctx, 1, "Laptop", -5), ErrInvalidInput)
		assert.ErrorIs(t, reg.Update(ctx, 1, "Laptop", math.NaN()), ErrInvalidInput)
		assert.ErrorIs(t, reg.Update(ctx, 1, "Laptop", math.Inf(1)), ErrInvalidInput)

		got, err := reg.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: 1, Name: "Laptop", Price: 1000}, got)

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestRegistry_DeleteTwice(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		require.NoError(t, reg.Delete(ctx, 2))
		before, err := reg.ListAll(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, reg.Delete(ctx, 2), ErrNotFound)
		after, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestRegistry_ListCountsNetCreates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		for i := 10; i < 20; i++ {
			_, err := reg.Create(ctx, models.Product{ID: i, Name: fmt.Sprintf("p-%d", i), Price: float64(i)})
			require.NoError(t, err)
		}
		for _, id := range []int{11, 15, 19} {
			require.NoError(t, reg.Delete(ctx, id))
		}

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 7)

		n, err := reg.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		all, err := reg.ListAll(ctx)
		require.NoError(t, err)
		all[0].Name = "mutated"

		got, err := reg.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Laptop", got.Name)
	})
}

func TestRegistry_ConcurrentCreates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		const n = 50

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				_, err := reg.Create(ctx, models.Product{ID: id, Name: fmt.Sprintf("item-%d", id), Price: 1})
				errs <- err
			}(100 + i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		for i := 0; i < n; i++ {
			got, err := reg.GetByID(ctx, 100+i)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("item-%d", 100+i), got.Name)
		}
		count, err := reg.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, n, count)
	})
}

func TestSeed_SkipsExisting(t *testing.T) {
	forEachBackend(t, func(t *testing.T, reg Registry) {
		ctx := context.Background()
		seeded(t, reg)

		n, err := Seed(ctx, reg, DefaultProducts)
		require.NoError(t, err)
		assert.Zero(t, n)

		count, err := reg.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
