package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas Prometheus del ciclo de vida de cuentas. Viven en un paquete
// propio para evitar ciclos de import entre el motor de cascada y el HTTP.

var (
	CascadeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_cascade_operations_total",
		Help: "Operaciones de cascada por acción y resultado",
	}, []string{"action", "result"})

	CascadeEntityFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_cascade_entity_failures_total",
		Help: "Fallos por entidad dentro de una cascada",
	}, []string{"entity", "action"})

	ReaperRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lifecycle_reaper_runs_total",
		Help: "Barridos ejecutados por el reaper de borrados diferidos",
	})

	ReaperDeletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_reaper_deletions_total",
		Help: "Borrados físicos diferidos por resultado (executed, skipped, failed)",
	}, []string{"result"})
)

// RegisterLifecycle registra las métricas del ciclo de vida en el registry
// dado (o el default si es nil). Tolera doble registro.
func RegisterLifecycle(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		CascadeOperations,
		CascadeEntityFailures,
		ReaperRuns,
		ReaperDeletions,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
