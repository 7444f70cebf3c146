package checkout

import (
	"fmt"

	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// sagaStep un paso de la secuencia de commit multi-tabla. No hay transacción
// nativa entre tablas en este flujo: cada paso con efectos que deben
// deshacerse declara su acción compensatoria. Los pasos nonFatal (inventario,
// variantes, costo) se registran y se continúa: la factura queda en pie aunque
// el stock pueda quedar desfasado hasta corrección manual.
type sagaStep struct {
	name       string
	run        func() error
	compensate func() error
	nonFatal   bool
}

// saga coordinador: ejecuta los pasos en orden, registra cuáles completaron y
// ante un fallo fatal compensa SOLO los completados, en orden inverso.
type saga struct {
	steps []sagaStep
	log   *logger.Logger
}

// execute devuelve las advertencias de pasos no fatales y el error fatal (si hubo).
func (s *saga) execute() ([]string, error) {
	var warnings []string
	var done []sagaStep

	for _, step := range s.steps {
		if err := step.run(); err != nil {
			if step.nonFatal {
				s.log.Warn().Err(err).Str("step", step.name).Msg("checkout: paso de reconciliación falló, la factura queda en pie")
				warnings = append(warnings, fmt.Sprintf("%s: %v", step.name, err))
				continue
			}
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].compensate == nil {
					continue
				}
				if cerr := done[i].compensate(); cerr != nil {
					s.log.Error().Err(cerr).Str("step", done[i].name).Msg("checkout: falló la compensación")
				}
			}
			return warnings, &CommitError{Step: step.name, Err: err}
		}
		done = append(done, step)
	}
	return warnings, nil
}
