package fs

import (
	"log/slog"

	"github.com/viant/afs"
)

// Option configures a Service.
type Option func(s *Service)

// WithFs sets the file system; afs.New() is used otherwise.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the logger reporting skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
