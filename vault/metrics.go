// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vault

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Anitsuga/KipuBank/consts"
)

type metrics struct {
	deposits        prometheus.Counter
	withdrawals     prometheus.Counter
	depositedValue  prometheus.Counter
	withdrawnValue  prometheus.Counter
	rejections      prometheus.Counter
	reentrancyHits  prometheus.Counter
	transferFailers prometheus.Counter

	totalHeld prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "deposits",
			Help:      "number of successful deposits",
		}),
		withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "withdrawals",
			Help:      "number of successful withdrawals",
		}),
		depositedValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "deposited_value",
			Help:      "cumulative value deposited",
		}),
		withdrawnValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "withdrawn_value",
			Help:      "cumulative value withdrawn",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "rejections",
			Help:      "number of operations rejected by a precondition",
		}),
		reentrancyHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "reentrancy_rejections",
			Help:      "number of withdrawals rejected by the reentrancy lock",
		}),
		transferFailers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "transfer_failures",
			Help:      "number of withdrawals rolled back after a sink failure",
		}),
		totalHeld: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: consts.Name,
			Name:      "total_held",
			Help:      "value currently custodied by the vault",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.deposits),
		r.Register(m.withdrawals),
		r.Register(m.depositedValue),
		r.Register(m.withdrawnValue),
		r.Register(m.rejections),
		r.Register(m.reentrancyHits),
		r.Register(m.transferFailers),
		r.Register(m.totalHeld),
	)
	return r, m, errs.Err
}
