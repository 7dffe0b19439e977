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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spatialmodel/pdep"
	"github.com/spatialmodel/pdep/internal/ledger"
)

// solverOutput returns valid solver output for a network with two
// unimolecular wells and one multimolecular well.
func solverOutput() string {
	var b strings.Builder
	b.WriteString(`# FAME output
Number of unimolecular wells        2
Number of multimolecular wells      1
Number of Chebyshev temperatures    4
Number of Chebyshev pressures       4
Temperature range of fit            300 - 2100 K
Pressure range of fit               0.01 - 100 bar

`)
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "# block %d\n", i)
		for t := 0; t < 4; t++ {
			fmt.Fprintf(&b, "%d.0 0.1 0.01 0.001\n", 10-i)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// fakeSolver writes a shell script that stands in for the solver and
// produces solverOutput.
func fakeSolver(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solvers are shell scripts")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "output.txt")
	if err := os.WriteFile(out, []byte(solverOutput()), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "fame.exe")
	script := fmt.Sprintf("#!/bin/sh\ncp '%s' %s\n", out, pdep.OutputFile)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEstimate(t *testing.T) {
	m := loadTestModel(t)
	log, hook := test.NewNullLogger()
	updater := &ChemkinWriter{Path: filepath.Join(t.TempDir(), "chem.inp")}
	est := &pdep.Estimator{
		Solver:  pdep.Solver{Path: fakeSolver(t)},
		WorkDir: t.TempDir(),
		Fitter:  DetailedBalanceFitter{Explicit: m.ReverseKinetics},
		Updater: updater,
		Log:     log,
	}
	st, sum, err := Estimate(context.Background(), est, m, pdep.State{Mode: pdep.ModeReservoirState})
	if err != nil {
		t.Fatal(err)
	}
	if sum != (Summary{Updated: 2, Skipped: 1}) {
		t.Errorf("summary: %v", sum)
	}
	if st.RunCount != 2 || st.Mode != pdep.ModeReservoirState {
		t.Errorf("state %+v", st)
	}
	for _, id := range []int{1, 2} {
		n := m.Network(id)
		if n.Altered || len(n.NetReactions) != 3 {
			t.Errorf("network %d: altered %v, %d net reactions", id, n.Altered, len(n.NetReactions))
		}
	}
	if !m.Network(3).Altered {
		t.Error("the skipped network should still be altered")
	}
	if _, err := os.Stat(updater.Path); err != nil {
		t.Error(err)
	}
	found := false
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "monatomic") {
			found = true
		}
	}
	if !found {
		t.Error("the skipped network was not logged")
	}
}

func TestEstimateNonFatal(t *testing.T) {
	m := loadTestModel(t)
	// C2H4OOH is a molecule, so its modes can't be generated and
	// neither network containing it can be estimated.
	m.Species["C2H4OOH"].spec = nil
	log, _ := test.NewNullLogger()
	est := &pdep.Estimator{
		Solver:  pdep.Solver{Path: fakeSolver(t)},
		WorkDir: t.TempDir(),
		Fitter:  DetailedBalanceFitter{Explicit: m.ReverseKinetics},
		Log:     log,
	}
	_, sum, err := Estimate(context.Background(), est, m, pdep.State{Mode: pdep.ModeStrongCollision})
	if err != nil {
		t.Fatal(err)
	}
	if sum != (Summary{NotUpdated: 2, Skipped: 1}) {
		t.Errorf("summary: %v", sum)
	}
}

func TestEstimateFatal(t *testing.T) {
	m := loadTestModel(t)
	log, _ := test.NewNullLogger()
	est := &pdep.Estimator{
		Solver:  pdep.Solver{Path: filepath.Join(t.TempDir(), "missing.exe")},
		WorkDir: t.TempDir(),
		Fitter:  DetailedBalanceFitter{Explicit: m.ReverseKinetics},
		Log:     log,
	}
	_, sum, err := Estimate(context.Background(), est, m, pdep.State{Mode: pdep.ModeStrongCollision})
	if !pdep.IsFatal(err) {
		t.Fatalf("err = %v, want a fatal error", err)
	}
	if sum.NotUpdated != 1 || sum.Updated != 0 {
		t.Errorf("the run should stop at the first network: %v", sum)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := &estimatorConfig{
		Solver:   pdep.Solver{Path: fakeSolver(t)},
		WorkDir:  filepath.Join(dir, "fame"),
		Mode:     pdep.ModeReservoirState,
		T:        1000,
		P:        1,
		Ledger:   filepath.Join(dir, "ledger.db"),
		Metrics:  filepath.Join(dir, "pdep.prom"),
		Output:   filepath.Join(dir, "chem.inp"),
		LogFile:  filepath.Join(dir, "pdep.log"),
		LogLevel: "info",
	}
	var w bytes.Buffer
	if err := Run(context.Background(), &w, testNetworkFile, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(w.String(), "2 updated, 1 skipped, 0 not updated") {
		t.Errorf("log output: %s", w.String())
	}
	logFile, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(logFile) != w.String() {
		t.Error("log file should mirror the log output")
	}
	for _, name := range []string{"0001_input.txt", "0001_output.txt", "0002_input.txt", "0002_output.txt"} {
		if _, err := os.Stat(filepath.Join(cfg.WorkDir, name)); err != nil {
			t.Error(err)
		}
	}
	chem, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if c := strings.Count(string(chem), "TCHEB"); c != 12 {
		t.Errorf("%d Chemkin reactions, want 12", c)
	}
	metrics, err := os.ReadFile(cfg.Metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(metrics), `pdep_estimations_total{outcome="updated"} 2`) {
		t.Errorf("metrics: %s", metrics)
	}

	l, err := ledger.Open(cfg.Ledger)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	entries, err := l.List(context.Background(), -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("%d ledger entries, want 2", len(entries))
	}
}
