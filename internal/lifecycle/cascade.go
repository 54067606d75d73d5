// Package lifecycle implementa el ciclo de vida de borrado de cuentas:
// la cascada sobre los registros creados por el usuario y el barrido de
// borrados físicos diferidos.
//
// La cascada trabaja sobre un registro explícito de entidades. Cada entrada
// declara si la entidad soporta borrado lógico; las que no lo soportan
// degradan a borrado físico durante una cascada lógica y no participan de
// la restauración.
package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/metrics"
	"github.com/davilabs/rapida/internal/observability/logger"
)

// Action identifica la operación de cascada ejecutada sobre una entidad.
type Action string

const (
	ActionSoftDelete Action = "soft_delete"
	ActionHardDelete Action = "hard_delete"
	ActionRestore    Action = "restore"
	ActionSkip       Action = "skip"
)

// Entry es una entrada del registro de cascada: una entidad y el handle de
// repositorio que sabe operar sobre sus registros por creador.
type Entry struct {
	// Entity es el nombre lógico de la entidad (para logs y métricas).
	Entity string

	// Soft es el handle con soporte de borrado lógico. Exactamente uno de
	// Soft/Hard debe estar presente.
	Soft repository.SoftDeletableRepository

	// Hard es el handle para entidades sin marca de borrado lógico: la
	// cascada lógica degrada a borrado físico.
	Hard repository.CreatorScopedRepository
}

// Outcome registra el resultado de la cascada sobre una entidad.
type Outcome struct {
	Entity string
	Action Action
	Err    error
}

// Cascader ejecuta cascadas secuenciales sobre el registro de entidades.
// Un fallo en una entidad se registra y la cascada continúa con las
// siguientes: el resultado completo queda en los Outcomes.
type Cascader struct {
	entries []Entry
	log     *zap.Logger
}

// NewCascader construye el motor de cascada sobre el registro dado.
func NewCascader(entries []Entry) *Cascader {
	return &Cascader{
		entries: entries,
		log:     logger.Named("lifecycle.cascade"),
	}
}

// Registry arma el registro de cascada estándar a partir de una conexión.
// El orden es fijo: perfiles, publicaciones, invitaciones. Workspaces quedan
// fuera (no declaran creador).
func Registry(conn interface {
	PersonProfiles() repository.PersonProfileRepository
	CompanyProfiles() repository.CompanyProfileRepository
	Posts() repository.PostRepository
	Invitations() repository.InvitationRepository
}) []Entry {
	return []Entry{
		{Entity: "person_profile", Soft: conn.PersonProfiles()},
		{Entity: "company_profile", Soft: conn.CompanyProfiles()},
		{Entity: "post", Soft: conn.Posts()},
		{Entity: "invitation", Hard: conn.Invitations()},
	}
}

// SoftDelete estampa la marca de borrado en todos los registros creados por
// el usuario. Las entidades sin marca degradan a borrado físico.
func (c *Cascader) SoftDelete(ctx context.Context, userID string, at time.Time) []Outcome {
	outcomes := make([]Outcome, 0, len(c.entries))
	for _, e := range c.entries {
		var o Outcome
		o.Entity = e.Entity
		if e.Soft != nil {
			o.Action = ActionSoftDelete
			o.Err = e.Soft.SoftDeleteByCreator(ctx, userID, at)
		} else {
			o.Action = ActionHardDelete
			o.Err = e.Hard.HardDeleteByCreator(ctx, userID)
		}
		c.record(userID, o)
		outcomes = append(outcomes, o)
	}
	c.observe("soft_delete", outcomes)
	return outcomes
}

// Restore limpia la marca de borrado. Las entidades degradadas a borrado
// físico no tienen nada que restaurar y se marcan como omitidas.
func (c *Cascader) Restore(ctx context.Context, userID string) []Outcome {
	outcomes := make([]Outcome, 0, len(c.entries))
	for _, e := range c.entries {
		var o Outcome
		o.Entity = e.Entity
		if e.Soft != nil {
			o.Action = ActionRestore
			o.Err = e.Soft.RestoreByCreator(ctx, userID)
		} else {
			o.Action = ActionSkip
		}
		c.record(userID, o)
		outcomes = append(outcomes, o)
	}
	c.observe("restore", outcomes)
	return outcomes
}

// HardDelete elimina físicamente todos los registros creados por el usuario.
func (c *Cascader) HardDelete(ctx context.Context, userID string) []Outcome {
	outcomes := make([]Outcome, 0, len(c.entries))
	for _, e := range c.entries {
		o := Outcome{Entity: e.Entity, Action: ActionHardDelete}
		if e.Soft != nil {
			o.Err = e.Soft.HardDeleteByCreator(ctx, userID)
		} else {
			o.Err = e.Hard.HardDeleteByCreator(ctx, userID)
		}
		c.record(userID, o)
		outcomes = append(outcomes, o)
	}
	c.observe("hard_delete", outcomes)
	return outcomes
}

func (c *Cascader) record(userID string, o Outcome) {
	if o.Err != nil {
		metrics.CascadeEntityFailures.WithLabelValues(o.Entity, string(o.Action)).Inc()
		c.log.Error("cascade step failed",
			logger.UserID(userID),
			zap.String("entity", o.Entity),
			zap.String("action", string(o.Action)),
			logger.Err(o.Err))
		return
	}
	c.log.Debug("cascade step ok",
		logger.UserID(userID),
		zap.String("entity", o.Entity),
		zap.String("action", string(o.Action)))
}

func (c *Cascader) observe(action string, outcomes []Outcome) {
	result := "ok"
	if Failed(outcomes) {
		result = "partial_failure"
	}
	metrics.CascadeOperations.WithLabelValues(action, result).Inc()
}

// Failed indica si alguna entidad de la cascada terminó en error.
func Failed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}
