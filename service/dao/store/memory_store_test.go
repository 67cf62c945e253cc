package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, model.Vendor](func(v *model.Vendor) string { return v.ID })

	assert.True(t, errors.Is(s.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(s.Save(ctx, &model.Vendor{}), dao.ErrInvalidID))

	for _, id := range []string{"c", "a", "b"} {
		assert.NoError(t, s.Save(ctx, &model.Vendor{ID: id, Name: id}))
	}
	assert.NoError(t, s.Save(ctx, &model.Vendor{ID: "a", Name: "updated"}))

	listed, err := s.List(ctx)
	assert.NoError(t, err)
	var ids []string
	for _, v := range listed {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	loaded, err := s.Load(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, "updated", loaded.Name)

	_, err = s.Load(ctx, "missing")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	assert.NoError(t, s.Delete(ctx, "c"))
	assert.True(t, errors.Is(s.Delete(ctx, "c"), dao.ErrNotFound))
	listed, _ = s.List(ctx)
	assert.Len(t, listed, 2)
}

func TestMemoryStore_CloneAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, model.Budget](func(b *model.Budget) string { return b.Department },
		WithClone[string, model.Budget]((*model.Budget).Clone))

	original := &model.Budget{Department: "it", Total: 100}
	assert.NoError(t, s.Save(ctx, original))
	original.Total = 1

	loaded, _ := s.Load(ctx, "it")
	assert.EqualValues(t, 100, loaded.Total)
	loaded.Spent = 99
	again, _ := s.Load(ctx, "it")
	assert.EqualValues(t, 0, again.Spent)

	updated, err := s.Update(ctx, "it", func(b *model.Budget) error {
		b.Spent = 40
		return nil
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 40, updated.Spent)

	failure := errors.New("rejected")
	_, err = s.Update(ctx, "it", func(b *model.Budget) error {
		b.Spent = 1000
		return failure
	})
	assert.True(t, errors.Is(err, failure))
	again, _ = s.Load(ctx, "it")
	assert.EqualValues(t, 40, again.Spent)

	_, err = s.Update(ctx, "none", func(*model.Budget) error { return nil })
	assert.True(t, errors.Is(err, dao.ErrNotFound))
}
