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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pdep"
	"github.com/spf13/viper"
)

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`pdep: you need to specify an output file configuration variable (for example: OutputFile="chem.inp")`)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("pdep: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// checkSolver returns the solver executable path: solver if it is set,
// otherwise the default location within root.
func checkSolver(root, solver string) (string, error) {
	if solver = os.ExpandEnv(solver); solver != "" {
		return solver, nil
	}
	if root = os.ExpandEnv(root); root == "" {
		return "", fmt.Errorf("pdep: either the Root or the Solver configuration variable needs to be set")
	}
	return pdep.ExecutablePath(root), nil
}

// newLogger returns a logger that writes to w and, if logFile is not
// empty, to logFile. The returned function closes the log file.
func newLogger(w io.Writer, logFile, level string) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("pdep: invalid LogLevel: %v", err)
	}
	log.SetLevel(lvl)
	if logFile == "" {
		log.SetOutput(w)
		return log, func() error { return nil }, nil
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("pdep: problem creating log file: %v", err)
	}
	log.SetOutput(io.MultiWriter(w, f))
	return log, f.Close, nil
}

// estimatorConfig holds the settings needed to set up an estimator.
type estimatorConfig struct {
	Solver   pdep.Solver
	WorkDir  string
	Isolate  bool
	Mode     pdep.Mode
	T, P     float64
	Ledger   string
	Metrics  string
	Output   string
	LogFile  string
	LogLevel string
}

// readEstimatorConfig reads and checks the estimator settings in cfg.
func readEstimatorConfig(cfg *viper.Viper) (*estimatorConfig, error) {
	solver, err := checkSolver(cfg.GetString("Root"), cfg.GetString("Solver"))
	if err != nil {
		return nil, err
	}
	mode, err := pdep.ParseMode(cfg.GetString("Mode"))
	if err != nil {
		return nil, err
	}
	output, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return nil, err
	}
	timeout := cfg.GetDuration("Timeout")
	if timeout < 0 {
		return nil, fmt.Errorf("pdep: Timeout must not be negative but is %v", timeout)
	}
	workDir := os.ExpandEnv(cfg.GetString("WorkDir"))
	if workDir == "" {
		return nil, fmt.Errorf("pdep: the WorkDir configuration variable needs to be set")
	}
	return &estimatorConfig{
		Solver:   pdep.Solver{Path: solver, Timeout: timeout},
		WorkDir:  workDir,
		Isolate:  cfg.GetBool("Isolate"),
		Mode:     mode,
		T:        cfg.GetFloat64("Temperature"),
		P:        cfg.GetFloat64("Pressure"),
		Ledger:   os.ExpandEnv(cfg.GetString("LedgerFile")),
		Metrics:  os.ExpandEnv(cfg.GetString("MetricsFile")),
		Output:   output,
		LogFile:  checkLogFile(cfg.GetString("LogFile"), output),
		LogLevel: cfg.GetString("LogLevel"),
	}, nil
}
