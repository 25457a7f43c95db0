package postprocessors

import (
	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
	"github.com/evid-cli/evid/internal/postprocessors/labeltext"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(domain.ProcessorLigatures, func() driven.PostProcessor { return labeltext.NewLigatures() })
	r.Register(domain.ProcessorMentions, func() driven.PostProcessor { return labeltext.NewMentions() })
	r.Register(domain.ProcessorSentences, func() driven.PostProcessor { return labeltext.NewSentences() })
	r.Register(domain.ProcessorBlankLines, func() driven.PostProcessor { return labeltext.NewBlankLines() })
	r.Register(domain.ProcessorAutoLabel, func() driven.PostProcessor { return labeltext.NewAutoLabel() })
}

// DefaultRegistry returns a registry with all built-in processors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
