/*
Copyright © 2026 the PDep authors.
This file is part of PDep.

PDep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDep.  If not, see <http://www.gnu.org/licenses/>.
*/

package pdeputil

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pdep"
	"github.com/spatialmodel/pdep/internal/ledger"
)

// Summary counts the outcomes of estimating the networks of a model.
type Summary struct {
	Updated, Skipped, NotUpdated int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d updated, %d skipped, %d not updated", s.Updated, s.Skipped, s.NotUpdated)
}

// Estimate estimates the networks of m in order. A failure that only
// affects one network is logged and the network is left altered.
// A fatal failure stops the run and is returned.
func Estimate(ctx context.Context, est *pdep.Estimator, m *Model, st pdep.State) (pdep.State, Summary, error) {
	var sum Summary
	log := est.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	for _, n := range m.Networks {
		var (
			o   pdep.Outcome
			err error
		)
		st, o, err = est.Estimate(ctx, st, n, m.Conditions)
		switch o {
		case pdep.Updated:
			sum.Updated++
		case pdep.Skipped:
			sum.Skipped++
		default:
			sum.NotUpdated++
		}
		if err == nil {
			continue
		}
		if pdep.IsFatal(err) {
			return st, sum, fmt.Errorf("pdep: network %d: %w", n.ID, err)
		}
		log.WithField("network", n.ID).WithError(err).Warn("pressure-dependent kinetics not updated")
	}
	return st, sum, nil
}

// Run estimates the pressure-dependent kinetics of the networks in
// networkFile according to cfg and writes them to cfg.Output. Progress
// messages are written to w.
func Run(ctx context.Context, w io.Writer, networkFile string, cfg *estimatorConfig) error {
	log, closeLog, err := newLogger(w, cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	nf, err := ReadNetworkFile(networkFile)
	if err != nil {
		return err
	}
	m, err := nf.Load(cfg.T, cfg.P)
	if err != nil {
		return err
	}

	est := &pdep.Estimator{
		Solver:  cfg.Solver,
		WorkDir: cfg.WorkDir,
		Isolate: cfg.Isolate,
		Fitter:  DetailedBalanceFitter{Explicit: m.ReverseKinetics},
		Updater: &ChemkinWriter{Path: cfg.Output},
		Log:     log,
	}
	if cfg.Ledger != "" {
		l, err := ledger.Open(cfg.Ledger)
		if err != nil {
			return err
		}
		defer l.Close()
		est.Recorder = l
	}
	var reg *prometheus.Registry
	if cfg.Metrics != "" {
		reg = prometheus.NewRegistry()
		est.Metrics = pdep.NewMetrics(reg)
	}

	log.WithFields(logrus.Fields{
		"networks": len(m.Networks),
		"mode":     cfg.Mode.String(),
		"solver":   cfg.Solver.Path,
	}).Info("estimating pressure-dependent kinetics")

	st, sum, err := Estimate(ctx, est, m, pdep.State{Mode: cfg.Mode})
	if reg != nil {
		if werr := prometheus.WriteToTextfile(cfg.Metrics, reg); werr != nil {
			log.WithError(werr).Warn("writing metrics")
		}
	}
	if err != nil {
		return err
	}
	log.WithField("solver_runs", st.RunCount).Infof("finished: %v", sum)
	return nil
}
