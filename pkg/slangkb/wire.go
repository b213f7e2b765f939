package slangkb

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/slangkb/pkg/slangkb/config"
	"github.com/cognicore/slangkb/pkg/slangkb/quiz"
)

// FromConfig opens the configured dataset source and creates an engine over
// it. The engine's Close releases the source.
func FromConfig(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, rng quiz.Rand) (*Engine, error) {
	comp, err := cfg.Components(ctx)
	if err != nil {
		return nil, err
	}
	e, err := New(Options{
		Loader:         comp.Source,
		Builder:        comp.Builder,
		Rand:           rng,
		Quiz:           cfg.QuizOptions(),
		Logger:         log,
		GraphCacheSize: cfg.Graph.CacheSize,
		Closer:         comp,
	})
	if err != nil {
		comp.Close()
		return nil, err
	}
	return e, nil
}
