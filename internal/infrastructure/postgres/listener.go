package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/application/realtime"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Listener escucha el canal NOTIFY que emiten los triggers de products e
// inventory y convierte cada payload JSON en un realtime.Event. Usa una
// conexión dedicada (LISTEN ocupa la conexión completa, no puede salir del
// pool) y se reconecta con backoff ante cortes.
type Listener struct {
	cfg     config.DBConfig
	channel string
	log     *logger.Logger
}

// NewListener construye el listener del canal de notificaciones.
func NewListener(cfg config.DBConfig, channel string, log *logger.Logger) *Listener {
	return &Listener{cfg: cfg, channel: channel, log: log}
}

// Run emite eventos en out hasta que ctx termine. Cierra out al salir.
func (l *Listener) Run(ctx context.Context, out chan<- realtime.Event) {
	defer close(out)

	backoff := time.Second
	for {
		if err := l.listen(ctx, out); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("realtime: conexión LISTEN perdida")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		return
	}
}

func (l *Listener) listen(ctx context.Context, out chan<- realtime.Event) error {
	conn, err := pgx.Connect(ctx, l.cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info().Str("channel", l.channel).Msg("realtime: escuchando notificaciones de cambios")

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var ev realtime.Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			l.log.Warn().Err(err).Str("payload", notification.Payload).Msg("realtime: payload de notificación inválido")
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}
