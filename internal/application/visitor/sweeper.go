package visitor

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper programa Registry.Sweep con una expresión cron ("@every 5m", "*/10 * * * *").
type Sweeper struct {
	cron *cron.Cron
}

// NewSweeper valida la expresión y registra el barrido. No arranca hasta Start.
func NewSweeper(r *Registry, spec string, log zerolog.Logger) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := r.Sweep(); n > 0 {
			log.Info().Int("evicted", n).Int("active", r.Len()).Msg("visitantes inactivos descartados")
		}
	})
	if err != nil {
		return nil, err
	}
	return &Sweeper{cron: c}, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop detiene el programador; el contexto devuelto termina cuando acaba el barrido en curso.
func (s *Sweeper) Stop() context.Context { return s.cron.Stop() }
