// Package serve exposes the trained classifier over HTTP. The serving path
// reuses the exact reader/parser/extractor pipeline the training-table
// builder runs, so serving-time features match training-time features by
// construction.
package serve

import (
	"io"

	"go.uber.org/zap"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/model"
	"github.com/labauto/pathovar/internal/table"
	"github.com/labauto/pathovar/internal/vcf"
)

// Prediction is the result of scoring one uploaded VCF.
type Prediction struct {
	N               int       // rows scored
	PathogenicCalls int       // probabilities at or above the model threshold
	Probabilities   []float64 // per-variant pathogenicity probability
	RecordsSkipped  int
	InfoWarnings    int
}

// Service wraps a loaded model. The model and schema are set once at
// construction and read-only thereafter, so concurrent requests share them
// without locking.
type Service struct {
	model  *model.LogisticModel
	schema feature.Schema
	opts   vcf.Options
	logger *zap.Logger
}

// NewService creates a service for the given model. The model's embedded
// schema is checked against the active extractor schema here, before any
// request is served; a mismatch is a *feature.SchemaMismatchError.
func NewService(m *model.LogisticModel, schema feature.Schema, opts vcf.Options) (*Service, error) {
	if err := m.CheckSchema(schema); err != nil {
		return nil, err
	}
	return &Service{
		model:  m,
		schema: schema,
		opts:   opts,
		logger: zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for request-level messages.
func (s *Service) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Predict runs the full extraction pipeline over the uploaded bytes and
// scores every variant. Returns table.ErrEmptyResult when no usable rows
// were found.
func (s *Service) Predict(r io.Reader) (*Prediction, error) {
	// Re-checked per request so a swapped model object can never score
	// against a drifted schema.
	if err := s.model.CheckSchema(s.schema); err != nil {
		return nil, err
	}

	reader, err := vcf.NewReader(r, s.opts)
	if err != nil {
		return nil, err
	}

	t, err := table.NewBuilder(s.schema, false).Build(reader)
	if err != nil {
		return nil, err
	}

	probs := s.model.PredictProba(t.Matrix())
	calls := 0
	for _, p := range probs {
		if p >= s.model.Threshold {
			calls++
		}
	}

	s.logger.Info("scored upload",
		zap.Int("n", len(probs)),
		zap.Int("pathogenic_calls", calls),
		zap.Int("records_skipped", t.Stats.RecordsSkipped))

	return &Prediction{
		N:               len(probs),
		PathogenicCalls: calls,
		Probabilities:   probs,
		RecordsSkipped:  t.Stats.RecordsSkipped,
		InfoWarnings:    t.Stats.InfoWarnings,
	}, nil
}
