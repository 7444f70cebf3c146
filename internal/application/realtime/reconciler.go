package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Tipos de evento de fila del canal de notificaciones.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Event evento de cambio a nivel de fila: {tabla, tipo, fila}.
type Event struct {
	Table string          `json:"table"`
	Type  string          `json:"type"`
	Row   json.RawMessage `json:"row,omitempty"`
}

// SnapshotSource reconstruye la vista denormalizada (catalog.SnapshotBuilder).
type SnapshotSource interface {
	Build(ctx context.Context, filter []entity.LocationRef) ([]dto.ProductSnapshot, error)
}

// Reconciler consume el stream de eventos de cambio y reconstruye el snapshot,
// con debounce (~500ms) para coalescer ráfagas. Da visibilidad EVENTUAL de las
// escrituras de otros actores; no previene carreras de escritura (esas se
// resuelven con deltas atómicos en el storage). Publica cada snapshot nuevo a
// los suscriptores por un límite pub/sub desacoplado del render.
type Reconciler struct {
	source   SnapshotSource
	debounce time.Duration
	log      *logger.Logger

	mu     sync.RWMutex
	subs   map[int]chan []dto.ProductSnapshot
	nextID int
	latest []dto.ProductSnapshot
}

// NewReconciler construye el reconciliador.
func NewReconciler(source SnapshotSource, debounce time.Duration, log *logger.Logger) *Reconciler {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Reconciler{
		source:   source,
		debounce: debounce,
		log:      log,
		subs:     make(map[int]chan []dto.ProductSnapshot),
	}
}

// Subscribe registra un consumidor de snapshots. El canal se cierra con Unsubscribe.
func (r *Reconciler) Subscribe() (<-chan []dto.ProductSnapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	ch := make(chan []dto.ProductSnapshot, 1)
	r.subs[id] = ch
	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Latest devuelve el último snapshot publicado (nil si aún no hay).
func (r *Reconciler) Latest() []dto.ProductSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Run consume eventos hasta que ctx termine o el canal se cierre. Solo los
// eventos de products/inventory disparan la reconstrucción; el resto se ignora.
func (r *Reconciler) Run(ctx context.Context, events <-chan Event) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !relevant(ev.Table) {
				continue
			}
			// Reinicia la ventana de debounce en cada evento de la ráfaga.
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			timer = nil
			r.rebuild(ctx)
		}
	}
}

func (r *Reconciler) rebuild(ctx context.Context) {
	snapshot, err := r.source.Build(ctx, nil)
	if err != nil {
		r.log.Warn().Err(err).Msg("realtime: reconstrucción de snapshot falló")
		return
	}
	r.mu.Lock()
	r.latest = snapshot
	for _, sub := range r.subs {
		// Entrega sin bloquear: un suscriptor lento conserva el más reciente.
		select {
		case sub <- snapshot:
		default:
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- snapshot:
			default:
			}
		}
	}
	r.mu.Unlock()
}

func relevant(table string) bool {
	return table == "products" || table == "inventory"
}
