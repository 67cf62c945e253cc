package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/internal/clock"
	"github.com/viant/procure/internal/idgen"
	"github.com/viant/procure/service/notify"
)

// Config holds configuration for the filesystem queue
type Config struct {
	BasePath     string        // Base directory for queue files
	PollInterval time.Duration // Consume polling interval
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BasePath:     "/tmp/procure/notify",
		PollInterval: 50 * time.Millisecond,
	}
}

// Queue is a filesystem outbox: published events are written to pending/,
// consumed events are moved to delivered/.
type Queue struct {
	fs           afs.Service
	config       Config
	pendingDir   string
	deliveredDir string
	mu           sync.Mutex
}

var _ notify.Queue = (*Queue)(nil)

// New creates a filesystem queue, creating its directories when missing.
func New(fs afs.Service, config Config) (*Queue, error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	q := &Queue{
		fs:           fs,
		config:       config,
		pendingDir:   path.Join(config.BasePath, "pending"),
		deliveredDir: path.Join(config.BasePath, "delivered"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.deliveredDir} {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes event to the pending directory.
func (q *Queue) Publish(ctx context.Context, event *notify.Event) error {
	if event == nil {
		return nil
	}
	copied := *event
	if copied.ID == "" {
		copied.ID = idgen.New()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = clock.Now()
	}
	data, err := json.Marshal(&copied)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	filePath := path.Join(q.pendingDir, q.filename(&copied))
	if err := q.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write event %s: %w", copied.ID, err)
	}
	return nil
}

// Consume returns the oldest pending event, polling until one is available
// or ctx is done.
func (q *Queue) Consume(ctx context.Context) (*notify.Event, error) {
	for {
		event, err := q.next(ctx)
		if err != nil || event != nil {
			return event, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.config.PollInterval):
		}
	}
}

// Pending returns the number of undelivered events.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.pendingObjects(ctx)
	return len(objects), err
}

func (q *Queue) next(ctx context.Context) (*notify.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.pendingObjects(ctx)
	if err != nil || len(objects) == 0 {
		return nil, err
	}
	object := objects[0]
	data, err := q.fs.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("failed to read event %s: %w", object.URL(), err)
	}
	event := &notify.Event{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event %s: %w", object.URL(), err)
	}
	if err := q.fs.Move(ctx, object.URL(), path.Join(q.deliveredDir, object.Name())); err != nil {
		return nil, fmt.Errorf("failed to mark event %s delivered: %w", event.ID, err)
	}
	return event, nil
}

// pendingObjects lists pending files oldest first.
func (q *Queue) pendingObjects(ctx context.Context) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending events: %w", err)
	}
	var ret []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			ret = append(ret, object)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name() < ret[j].Name() })
	return ret, nil
}

func (q *Queue) filename(event *notify.Event) string {
	return fmt.Sprintf("%020d-%s.json", event.CreatedAt.UnixNano(), event.ID)
}
