package realtime_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/realtime"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

type countingSource struct {
	builds atomic.Int32
}

func (s *countingSource) Build(ctx context.Context, filter []entity.LocationRef) ([]dto.ProductSnapshot, error) {
	n := s.builds.Add(1)
	return []dto.ProductSnapshot{{ID: "p1", Name: "Arroz"}, {ID: string(rune('a' + n))}}, nil
}

func runReconciler(t *testing.T, r *realtime.Reconciler) chan<- realtime.Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan realtime.Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, events)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return events
}

// Una ráfaga de eventos dentro de la ventana de debounce produce UNA sola
// reconstrucción, no una por evento.
func TestRun_RafagaCoalesceEnUnaReconstruccion(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 50*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	for i := 0; i < 20; i++ {
		events <- realtime.Event{Table: "inventory", Type: realtime.EventUpdate}
	}

	require.Eventually(t, func() bool {
		return source.builds.Load() == 1
	}, 2*time.Second, 10*time.Millisecond, "la ráfaga debe coalescer en una reconstrucción")

	// Pasada la ventana no llegan reconstrucciones extra.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), source.builds.Load())
}

func TestRun_EventosSeparadosReconstruyenCadaUno(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 20*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	events <- realtime.Event{Table: "products", Type: realtime.EventInsert}
	require.Eventually(t, func() bool { return source.builds.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	events <- realtime.Event{Table: "products", Type: realtime.EventDelete}
	require.Eventually(t, func() bool { return source.builds.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}

// Tablas ajenas al snapshot no disparan nada.
func TestRun_TablasIrrelevantesSeIgnoran(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 10*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	events <- realtime.Event{Table: "sales", Type: realtime.EventInsert}
	events <- realtime.Event{Table: "customer_payments", Type: realtime.EventUpdate}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), source.builds.Load())
	assert.Nil(t, r.Latest())
}

func TestLatest_CacheaElUltimoSnapshot(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 10*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	assert.Nil(t, r.Latest(), "sin reconstrucciones no hay caché")

	events <- realtime.Event{Table: "inventory", Type: realtime.EventUpdate}
	require.Eventually(t, func() bool { return r.Latest() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Arroz", r.Latest()[0].Name)
}

func TestSubscribe_RecibeSnapshotsNuevos(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 10*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	ch, cancel := r.Subscribe()
	defer cancel()

	events <- realtime.Event{Table: "products", Type: realtime.EventUpdate}

	select {
	case snap := <-ch:
		require.NotEmpty(t, snap)
		assert.Equal(t, "p1", snap[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("el suscriptor nunca recibió el snapshot")
	}
}

// Un suscriptor que no lee no bloquea la publicación: al leer obtiene el más
// reciente, no el que quedó rezagado.
func TestSubscribe_SuscriptorLentoConservaElMasReciente(t *testing.T) {
	source := &countingSource{}
	r := realtime.NewReconciler(source, 10*time.Millisecond, logger.Nop())
	events := runReconciler(t, r)

	ch, cancel := r.Subscribe()
	defer cancel()

	events <- realtime.Event{Table: "inventory", Type: realtime.EventUpdate}
	require.Eventually(t, func() bool { return r.Latest() != nil }, 2*time.Second, 5*time.Millisecond)
	first := r.Latest()

	// Segunda reconstrucción sin que el suscriptor haya leído la primera.
	// Latest se publica bajo el mismo lock que el reemplazo del buffer, así
	// que cuando cambia, el canal ya tiene el snapshot nuevo.
	events <- realtime.Event{Table: "inventory", Type: realtime.EventUpdate}
	require.Eventually(t, func() bool {
		latest := r.Latest()
		return latest != nil && latest[1].ID != first[1].ID
	}, 2*time.Second, 5*time.Millisecond)

	snap := <-ch
	latest := r.Latest()
	assert.Equal(t, latest[1].ID, snap[1].ID, "debe entregar el snapshot más reciente")
}

func TestSubscribe_CancelCierraElCanal(t *testing.T) {
	r := realtime.NewReconciler(&countingSource{}, time.Second, logger.Nop())
	ch, cancel := r.Subscribe()
	cancel()
	cancel() // idempotente

	_, open := <-ch
	assert.False(t, open)
}

func TestRun_TerminaAlCerrarElCanal(t *testing.T) {
	r := realtime.NewReconciler(&countingSource{}, time.Second, logger.Nop())
	events := make(chan realtime.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(context.Background(), events)
	}()

	close(events)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó al cerrar el canal de eventos")
	}
}
