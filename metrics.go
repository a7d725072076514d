package ffbridge

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	relayed         *prometheus.CounterVec
	emitFailures    *prometheus.CounterVec
	discarded       prometheus.Counter
	initializations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		relayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffbridge_events_relayed_total",
				Help: "Total status events relayed to the host",
			},
			[]string{"event"},
		),
		emitFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffbridge_emit_failures_total",
				Help: "Total host events that could not be emitted",
			},
			[]string{"event"},
		),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ffbridge_events_discarded_total",
			Help: "Total status events dropped because the bridge was destroyed before they reached the host",
		}),
		initializations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ffbridge_initializations_total",
				Help: "Total initialize calls by result",
			},
			[]string{"result"},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.relayed, err = register(reg, m.relayed); err != nil {
		return nil, err
	}
	if m.emitFailures, err = register(reg, m.emitFailures); err != nil {
		return nil, err
	}
	if m.discarded, err = register(reg, m.discarded); err != nil {
		return nil, err
	}
	if m.initializations, err = register(reg, m.initializations); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, reusing an identical collector that is already
// registered with reg.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metrics: %w", err)
	}
	return c, nil
}
