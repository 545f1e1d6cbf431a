package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ERC20Metrics holds all Prometheus metrics for the erc20 module
type ERC20Metrics struct {
	TransfersTotal *prometheus.CounterVec
	ApprovalsTotal *prometheus.CounterVec
	PermitFailures *prometheus.CounterVec
	SupplyChanges  *prometheus.CounterVec
}

var (
	erc20MetricsOnce sync.Once
	erc20Metrics     *ERC20Metrics
)

// NewERC20Metrics creates and registers erc20 metrics (singleton pattern)
func NewERC20Metrics() *ERC20Metrics {
	erc20MetricsOnce.Do(func() {
		erc20Metrics = &ERC20Metrics{
			TransfersTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "erc20",
					Name:      "transfers_total",
					Help:      "Total number of token transfers",
				},
				[]string{"token"},
			),
			ApprovalsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "erc20",
					Name:      "approvals_total",
					Help:      "Total number of allowance updates by source",
				},
				[]string{"source"},
			),
			PermitFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "erc20",
					Name:      "permit_failures_total",
					Help:      "Rejected permits by reason",
				},
				[]string{"reason"},
			),
			SupplyChanges: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapcore",
					Subsystem: "erc20",
					Name:      "supply_changes_total",
					Help:      "Total number of mints and burns",
				},
				[]string{"kind"},
			),
		}
	})
	return erc20Metrics
}
