package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/metrics"
	"github.com/davilabs/rapida/internal/observability/logger"
)

// DefaultGracePeriod es la ventana entre el borrado lógico de una cuenta y
// su borrado físico.
const DefaultGracePeriod = 90 * 24 * time.Hour

// DefaultSweepInterval es la frecuencia del barrido del reaper.
const DefaultSweepInterval = 1 * time.Hour

// Reaper ejecuta los borrados físicos diferidos. La agenda es durable
// (persistida en el store), así que los borrados pendientes sobreviven
// reinicios del proceso: el primer barrido al arrancar recoge lo vencido.
type Reaper struct {
	schedule repository.ScheduledDeletionRepository
	users    repository.UserRepository
	cascader *Cascader

	grace    time.Duration
	interval time.Duration
	log      *zap.Logger
}

// ReaperOption configura el Reaper.
type ReaperOption func(*Reaper)

// WithGracePeriod cambia la ventana de gracia (por defecto 90 días).
func WithGracePeriod(d time.Duration) ReaperOption {
	return func(r *Reaper) { r.grace = d }
}

// WithSweepInterval cambia la frecuencia de barrido (por defecto 1 hora).
func WithSweepInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) { r.interval = d }
}

// NewReaper construye el reaper sobre la agenda, el repositorio de usuarios
// y el motor de cascada dados.
func NewReaper(schedule repository.ScheduledDeletionRepository, users repository.UserRepository, cascader *Cascader, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		schedule: schedule,
		users:    users,
		cascader: cascader,
		grace:    DefaultGracePeriod,
		interval: DefaultSweepInterval,
		log:      logger.Named("lifecycle.reaper"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GracePeriod retorna la ventana de gracia configurada.
func (r *Reaper) GracePeriod() time.Duration { return r.grace }

// Schedule agenda el borrado físico del usuario para dentro de la ventana
// de gracia, contada desde at.
func (r *Reaper) Schedule(ctx context.Context, userID string, at time.Time) error {
	dueAt := at.Add(r.grace)
	if _, err := r.schedule.Schedule(ctx, userID, dueAt); err != nil {
		return err
	}
	r.log.Info("hard delete scheduled",
		logger.UserID(userID),
		zap.Time("due_at", dueAt))
	return nil
}

// Cancel desagenda el borrado físico del usuario (típicamente tras una
// restauración).
func (r *Reaper) Cancel(ctx context.Context, userID string) error {
	return r.schedule.Cancel(ctx, userID)
}

// Run barre la agenda al arrancar y luego en cada intervalo, hasta que el
// contexto se cancele.
func (r *Reaper) Run(ctx context.Context) {
	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep procesa todas las entradas vencidas de la agenda.
func (r *Reaper) Sweep(ctx context.Context) {
	metrics.ReaperRuns.Inc()

	now := time.Now().UTC()
	due, err := r.schedule.Due(ctx, now)
	if err != nil {
		r.log.Error("sweep: list due entries", logger.Err(err))
		return
	}
	for _, entry := range due {
		r.fire(ctx, entry, now)
	}
}

// fire ejecuta una entrada vencida. Antes de borrar re-verifica el estado
// de la cuenta: una restauración posterior al agendado cancela la entrada,
// y un re-borrado posterior la corre hasta que su propia gracia venza.
func (r *Reaper) fire(ctx context.Context, entry repository.ScheduledDeletion, now time.Time) {
	log := r.log.With(logger.UserID(entry.UserID))

	user, err := r.users.FindByID(ctx, entry.UserID)
	switch {
	case repository.IsNotFound(err):
		// La cuenta ya no existe: la entrada quedó huérfana.
		if err := r.schedule.Cancel(ctx, entry.UserID); err != nil {
			log.Error("fire: cancel orphan entry", logger.Err(err))
		}
		metrics.ReaperDeletions.WithLabelValues("skipped").Inc()
		return
	case err != nil:
		log.Error("fire: load user", logger.Err(err))
		metrics.ReaperDeletions.WithLabelValues("failed").Inc()
		return
	}

	if !user.Deleted() {
		// Restaurada después de agendar: no hay nada que borrar.
		if err := r.schedule.Cancel(ctx, entry.UserID); err != nil {
			log.Error("fire: cancel restored entry", logger.Err(err))
		}
		metrics.ReaperDeletions.WithLabelValues("skipped").Inc()
		log.Info("deferred hard delete cancelled: account restored")
		return
	}

	if dueAt := user.DeletedAt.Add(r.grace); dueAt.After(now) {
		// Re-borrada después de agendar: la gracia corre desde el último
		// borrado lógico.
		if _, err := r.schedule.Schedule(ctx, entry.UserID, dueAt); err != nil {
			log.Error("fire: reschedule entry", logger.Err(err))
		}
		metrics.ReaperDeletions.WithLabelValues("skipped").Inc()
		return
	}

	outcomes := r.cascader.HardDelete(ctx, entry.UserID)
	if Failed(outcomes) {
		// Se reintenta en el próximo barrido: la entrada sigue vencida.
		metrics.ReaperDeletions.WithLabelValues("failed").Inc()
		log.Warn("deferred hard delete incomplete, will retry")
		return
	}
	if err := r.users.HardDelete(ctx, entry.UserID); err != nil && !repository.IsNotFound(err) {
		metrics.ReaperDeletions.WithLabelValues("failed").Inc()
		log.Error("fire: hard delete user", logger.Err(err))
		return
	}
	if err := r.schedule.Cancel(ctx, entry.UserID); err != nil {
		log.Error("fire: clear entry", logger.Err(err))
	}
	metrics.ReaperDeletions.WithLabelValues("executed").Inc()
	log.Info("deferred hard delete executed")
}
