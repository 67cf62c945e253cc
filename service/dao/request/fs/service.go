package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
	"github.com/viant/procure/service/dao/criteria"
)

// Service implements a filesystem-based request storage; every request is
// kept as <basePath>/<id>.json.
type Service struct {
	basePath string
	fs       afs.Service
	logger   *slog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, model.Request] = (*Service)(nil)

// Save persists a request to the filesystem
func (s *Service) Save(ctx context.Context, request *model.Request) error {
	if request == nil {
		return dao.ErrNilEntity
	}
	if request.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	filePath := s.requestPath(request.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save request to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a request from the filesystem
func (s *Service) Load(ctx context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.requestPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if request exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: request %s", dao.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	var request model.Request
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request data: %w", err)
	}
	return &request, nil
}

// Delete removes a request from the filesystem
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.requestPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if request exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: request %s", dao.ErrNotFound, id)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete request file: %w", err)
	}
	return nil
}

// List returns matching requests ordered by ID.  Unreadable files are logged
// and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list request files: %w", err)
	}

	var requests []*model.Request
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable request file", "url", object.URL(), "error", err)
			continue
		}
		var request model.Request
		if err := json.Unmarshal(data, &request); err != nil {
			s.logger.Warn("skipping malformed request file", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.MatchRequest(&request, parameters) {
			continue
		}
		requests = append(requests, &request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

func (s *Service) requestPath(id string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem request storage rooted at basePath, creating the
// directory when missing.
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	ctx := context.Background()
	exists, _ := ret.fs.Exists(ctx, basePath)
	if !exists {
		if err := ret.fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	ret.basePath = url.Normalize(basePath, file.Scheme)
	return ret, nil
}
