package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv, err := New(filepath.Join(t.TempDir(), "requests"))
	if !assert.NoError(t, err) {
		return
	}

	negotiated := 9000.0
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	requests := []*model.Request{
		{ID: "req-2", Department: "it", Status: model.StatusPending, Amount: 12000, NegotiatedAmount: &negotiated,
			Steps: []model.Step{model.StepFinanceApproval}, CreatedAt: created},
		{ID: "req-1", Department: "marketing", Status: model.StatusApproved, Amount: 500, CreatedAt: created,
			History: []*model.Entry{{Actor: "u1", Role: model.RoleRequester, Action: "submitted", At: created}}},
	}
	for _, r := range requests {
		assert.NoError(t, srv.Save(ctx, r))
	}

	loaded, err := srv.Load(ctx, "req-2")
	if assert.NoError(t, err) {
		assert.EqualValues(t, 9000, loaded.EffectiveAmount())
		assert.Equal(t, []model.Step{model.StepFinanceApproval}, loaded.Steps)
		assert.True(t, created.Equal(loaded.CreatedAt))
	}

	all, err := srv.List(ctx)
	assert.NoError(t, err)
	if assert.Len(t, all, 2) {
		assert.Equal(t, "req-1", all[0].ID)
		assert.Len(t, all[0].History, 1)
	}

	pending, err := srv.List(ctx, dao.NewParameter(dao.ParamStatus, string(model.StatusPending)))
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = srv.Load(ctx, "missing")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.NoError(t, srv.Delete(ctx, "req-1"))
	assert.True(t, errors.Is(srv.Delete(ctx, "req-1"), dao.ErrNotFound))

	_, err = New("")
	assert.Error(t, err)
}

type countingFs struct {
	afs.Service
	uploads int
}

func (c *countingFs) Upload(ctx context.Context, URL string, mode os.FileMode, reader io.Reader, options ...storage.Option) error {
	c.uploads++
	return c.Service.Upload(ctx, URL, mode, reader, options...)
}

func TestService_Options(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "requests")
	fs := &countingFs{Service: afs.New()}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	srv, err := New(dir, WithFs(fs), WithLogger(logger))
	if !assert.NoError(t, err) {
		return
	}
	assert.NoError(t, srv.Save(ctx, &model.Request{ID: "req-1", Department: "it", Amount: 100}))
	assert.Equal(t, 1, fs.uploads)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	listed, err := srv.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Contains(t, logs.String(), "skipping malformed request file")
}
