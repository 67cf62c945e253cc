package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/procure/model"
	"github.com/viant/procure/service/notify"
)

func TestQueue(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	queue, err := New(fs, Config{BasePath: t.TempDir(), PollInterval: 5 * time.Millisecond})
	if !assert.NoError(t, err) {
		return
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []*notify.Event{
		{ID: "e1", Topic: notify.TopicSubmitted, RequestID: "r1", CreatedAt: base},
		{ID: "e2", Topic: notify.TopicBudgetAlert, Department: "marketing", Roles: model.Roles{model.RoleFinance},
			Message: "marketing at 90%", CreatedAt: base.Add(time.Second)},
	}
	for _, event := range events {
		assert.NoError(t, queue.Publish(ctx, event))
	}
	pending, err := queue.Pending(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, pending)

	for _, expect := range events {
		actual, err := queue.Consume(ctx)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, expect.ID, actual.ID)
		assert.Equal(t, expect.Topic, actual.Topic)
		assert.Equal(t, expect.Roles, actual.Roles)
	}
	pending, _ = queue.Pending(ctx)
	assert.Equal(t, 0, pending)

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = queue.Consume(timeoutCtx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	_, err = New(fs, Config{})
	assert.Error(t, err)
}
