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

package pdep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pdep/internal/hash"
)

// Outcome is the result of estimating a network.
type Outcome int

const (
	// Skipped means the network did not need, or could not use, an estimation.
	Skipped Outcome = iota

	// Updated means the network's net reactions were replaced.
	Updated

	// NotUpdated means the estimation failed and the network is
	// still marked as altered.
	NotUpdated
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Updated:
		return "updated"
	case NotUpdated:
		return "not updated"
	default:
		return "unknown"
	}
}

// ModelUpdater merges a network's new net reactions into the
// reaction model the network belongs to.
type ModelUpdater interface {
	UpdateReactionLists(n *Network) error
}

// RunRecord describes one solver run.
type RunRecord struct {
	NetworkID int
	RunCount  int
	Mode      Mode
	Grid      Grid

	// Fingerprint identifies the contents of the input file.
	Fingerprint string

	// NetworkFingerprint identifies the wells and path reactions
	// the input file was written for.
	NetworkFingerprint string

	NetReactions int
	Ignored      int

	Started time.Time
	Elapsed time.Duration

	// Err is empty for a successful run.
	Err string
}

// Recorder keeps a history of solver runs.
type Recorder interface {
	Record(ctx context.Context, r RunRecord) error
}

// Estimator estimates pressure-dependent kinetics for networks
// using the external solver.
type Estimator struct {
	Solver Solver

	// WorkDir is the directory the solver runs in and successful
	// runs are archived to.
	WorkDir string

	// Isolate gives every estimation its own scratch directory
	// within WorkDir, so that networks can be estimated concurrently.
	Isolate bool

	Fitter  KineticsFitter
	Updater ModelUpdater

	// Recorder and Metrics are optional.
	Recorder Recorder
	Metrics  *Metrics

	Log logrus.FieldLogger

	// sharedMu serializes runs in a shared workspace.
	sharedMu sync.Mutex

	// specMu serializes spectroscopic data generation, which
	// modifies species that may be shared between networks.
	specMu sync.Mutex
}

func (e *Estimator) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// Estimate updates the net reactions of n if n has been altered. st
// holds the run counter and the estimation mode; the returned State
// has the counter advanced and the mode unchanged.
//
// In reservoir state mode, a solver result with invalid rate
// coefficients causes the network to be estimated again in modified
// strong collision mode. If that also fails, NotUpdated is returned
// with an error wrapping ErrInvalidRates and n stays altered.
// Errors for which IsFatal is true mean the program should stop.
func (e *Estimator) Estimate(ctx context.Context, st State, n *Network, sys ReactionSystem) (State, Outcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	st, o, err := e.estimate(ctx, st, n, sys)
	e.Metrics.estimation(o)
	return st, o, err
}

func (e *Estimator) estimate(ctx context.Context, st State, n *Network, sys ReactionSystem) (State, Outcome, error) {
	log := e.log().WithFields(logrus.Fields{"network": n.ID, "mode": st.Mode.String()})
	if !n.Altered {
		log.Debug("network unchanged; skipping")
		return st, Skipped, nil
	}
	if reason := n.skippable(); reason != "" {
		log.Warnf("%s; skipping", reason)
		return st, Skipped, nil
	}
	if st.Mode == ModeNone {
		return st, NotUpdated, fmt.Errorf("pdep: no estimation mode selected")
	}
	if err := ctx.Err(); err != nil {
		return st, NotUpdated, err
	}
	if err := e.ensureSpectroscopicData(n); err != nil {
		return st, NotUpdated, err
	}

	st, err := e.run(ctx, st, n, sys, log)
	if err == nil {
		return st, Updated, nil
	}
	if !errors.Is(err, ErrInvalidRates) {
		return st, NotUpdated, err
	}
	log.Warn(err)
	if st.Mode != ModeReservoirState {
		return st, NotUpdated, err
	}

	log.Warn("falling back to modified strong collision mode for this network")
	e.Metrics.fallback()
	st.Mode = ModeStrongCollision
	st, o, err := e.estimate(ctx, st, n, sys)
	st.Mode = ModeReservoirState
	return st, o, err
}

func (e *Estimator) ensureSpectroscopicData(n *Network) error {
	e.specMu.Lock()
	defer e.specMu.Unlock()
	for _, s := range n.Species() {
		if s.SpectroscopicData() != nil {
			continue
		}
		if err := s.GenerateSpectroscopicData(); err != nil {
			return fmt.Errorf("%w: generating spectroscopic data for %s: %v", ErrInconsistentNetwork, speciesLabel(s), err)
		}
		if s.SpectroscopicData() == nil {
			return fmt.Errorf("%w: no spectroscopic data generated for %s", ErrInconsistentNetwork, speciesLabel(s))
		}
	}
	return nil
}

func (e *Estimator) workspace() (Workspace, error) {
	if err := os.MkdirAll(e.WorkDir, 0755); err != nil {
		return Workspace{}, fmt.Errorf("pdep: creating working directory: %w", err)
	}
	if e.Isolate {
		return IsolatedWorkspace(e.WorkDir)
	}
	return SharedWorkspace(e.WorkDir), nil
}

// run writes the input file, runs the solver and reads its output
// once in st.Mode.
func (e *Estimator) run(ctx context.Context, st State, n *Network, sys ReactionSystem, log logrus.FieldLogger) (State, error) {
	ws, err := e.workspace()
	if err != nil {
		return st, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.WithError(err).Warn("removing workspace")
		}
	}()
	if !ws.Isolated {
		e.sharedMu.Lock()
		defer e.sharedMu.Unlock()
	}

	in := Input{
		Network:  n,
		Mode:     st.Mode,
		RunCount: st.RunCount,
		Grid:     EnergyGrid(n.UniIsomers, n.MultiIsomers),
	}
	if in.BathGas, err = SummarizeBathGas(sys); err != nil {
		return st, err
	}
	iw := InputWriter{Fitter: e.Fitter, Log: log}
	nrxn, input, err := iw.Write(ws.InputPath(), in)
	if err != nil {
		return st, err
	}

	e.specMu.Lock()
	netFingerprint := n.Fingerprint()
	e.specMu.Unlock()

	rec := RunRecord{
		NetworkID:          n.ID,
		RunCount:           st.RunCount,
		Mode:               st.Mode,
		Grid:               in.Grid,
		Fingerprint:        hash.Hash(input),
		NetworkFingerprint: netFingerprint,
		Started:            time.Now(),
	}
	log.WithFields(logrus.Fields{"grid": in.Grid.String(), "reactions": nrxn}).Info("running solver")
	if err = e.Solver.Run(ctx, ws); err != nil {
		return st, err
	}
	e.Metrics.solverTime(st.Mode, time.Since(rec.Started))
	st.RunCount++

	out, err := ReadOutput(ws, n.UniIsomers, n.MultiIsomers)
	if out != nil {
		rec.NetReactions = len(out.Reactions)
		rec.Ignored = out.Ignored
		e.Metrics.ignored(out.Ignored)
	}
	defer func() {
		rec.Elapsed = time.Since(rec.Started)
		if err != nil {
			rec.Err = err.Error()
		}
		e.record(ctx, rec, log)
	}()
	if err != nil {
		return st, err
	}

	prev := n.NetReactions
	n.NetReactions = out.Reactions
	if e.Updater != nil {
		if err = e.Updater.UpdateReactionLists(n); err != nil {
			n.NetReactions = prev
			return st, fmt.Errorf("pdep: updating reaction model for network %d: %w", n.ID, err)
		}
	}
	n.Altered = false

	err = ws.Archive(n.ID, func(err error, d time.Duration) {
		log.Warnf("%v: retrying in %v", err, d)
	})
	if err != nil {
		return st, err
	}
	log.Infof("solver execution for network %d complete", n.ID)
	return st, nil
}

func (e *Estimator) record(ctx context.Context, r RunRecord, log logrus.FieldLogger) {
	if e.Recorder == nil {
		return
	}
	if err := e.Recorder.Record(ctx, r); err != nil {
		log.WithError(err).Warn("recording solver run")
	}
}

// writeFileAtomic writes data to a temporary file next to path and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrInputIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrInputIO, err)
	}
	return nil
}

func (m *Metrics) estimation(o Outcome) {
	if m != nil {
		m.Estimations.WithLabelValues(o.String()).Inc()
	}
}

func (m *Metrics) fallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) ignored(n int) {
	if m != nil && n > 0 {
		m.IgnoredRates.Add(float64(n))
	}
}

func (m *Metrics) solverTime(mode Mode, d time.Duration) {
	if m != nil {
		m.SolverSeconds.WithLabelValues(mode.String()).Observe(d.Seconds())
	}
}
