package checkout

import "fmt"

// CommitError error fatal del pipeline: falló la cabecera o las líneas.
// La saga ya ejecutó las compensaciones de los pasos completados; el carrito
// queda intacto para reintentar.
type CommitError struct {
	Step string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
