package procure

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/procure/model"
	"github.com/viant/procure/policy"
	"github.com/viant/procure/service/classifier"
	"github.com/viant/procure/service/dao"
	budgetdao "github.com/viant/procure/service/dao/budget"
	"github.com/viant/procure/service/notify"
	"github.com/viant/procure/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures a Service.
type Option func(s *Service)

// WithConfig replaces DefaultConfig.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClassifier overrides the classifier selected by the configuration.
func WithClassifier(aClassifier classifier.Classifier) Option {
	return func(s *Service) { s.classifier = aClassifier }
}

// WithPolicy sets the default visibility policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRequestDAO sets the request store.
func WithRequestDAO(requests dao.Service[string, model.Request]) Option {
	return func(s *Service) { s.requests = requests }
}

// WithBudgetDAO sets the department budget store.
func WithBudgetDAO(budgets budgetdao.Service) Option {
	return func(s *Service) { s.budgets = budgets }
}

// WithVendorDAO sets the vendor directory.
func WithVendorDAO(vendors dao.Service[string, model.Vendor]) Option {
	return func(s *Service) { s.vendors = vendors }
}

// WithQueue sets the notification queue.
func WithQueue(queue notify.Queue) Option {
	return func(s *Service) { s.queue = queue }
}

// WithFs sets the file system used for fixtures and filesystem stores.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithFixtureFsOptions passes storage options, e.g. an *embed.FS, when
// loading fixtures.
func WithFixtureFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.fixtureFsOptions = options }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
