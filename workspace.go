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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
)

// Solver file names.
const (
	InputFile        = "fame_input.txt"
	OutputFile       = "fame_output.txt"
	LegacyOutputFile = "fort.2"
)

// Workspace is the directory the solver runs in.
type Workspace struct {
	// Dir is the directory holding the working input and output files
	// and the solver's working directory.
	Dir string

	// ArchiveDir is where input and output files of successful runs
	// are kept.
	ArchiveDir string

	// Isolated is true if Dir belongs to a single estimation and
	// should be removed once the estimation is finished.
	Isolated bool
}

// SharedWorkspace returns a workspace that uses the fixed file names
// in dir for every network. Estimations sharing it must not overlap.
func SharedWorkspace(dir string) Workspace {
	return Workspace{Dir: dir, ArchiveDir: dir}
}

// IsolatedWorkspace creates a uniquely named scratch directory inside
// dir for a single estimation. Successful runs are archived into dir.
func IsolatedWorkspace(dir string) (Workspace, error) {
	scratch := filepath.Join(dir, "run-"+uuid.New().String())
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return Workspace{}, fmt.Errorf("pdep: creating workspace: %w", err)
	}
	return Workspace{Dir: scratch, ArchiveDir: dir, Isolated: true}, nil
}

// InputPath returns the path of the solver input file.
func (w Workspace) InputPath() string { return filepath.Join(w.Dir, InputFile) }

// OutputPath returns the path of the solver output file.
func (w Workspace) OutputPath() string { return filepath.Join(w.Dir, OutputFile) }

// LegacyOutputPath returns the path the solver writes to when
// OutputPath does not exist.
func (w Workspace) LegacyOutputPath() string { return filepath.Join(w.Dir, LegacyOutputFile) }

// ArchiveNames returns the paths that the input and output files of
// network id are archived to.
func (w Workspace) ArchiveNames(id int) (input, output string) {
	prefix := filepath.Join(w.ArchiveDir, fmt.Sprintf("%04d", id))
	return prefix + "_input.txt", prefix + "_output.txt"
}

// touchOutput makes sure that an empty output file exists so the
// solver does not fall back to writing LegacyOutputFile.
func (w Workspace) touchOutput() error {
	f, err := os.Create(w.OutputPath())
	if err != nil {
		return fmt.Errorf("pdep: touching solver output file: %w", err)
	}
	return f.Close()
}

// Archive renames the working input and output files to the archive
// names for network id. Renames are retried a few times to ride out
// transient failures on network file systems.
func (w Workspace) Archive(id int, notify func(error, time.Duration)) error {
	input, output := w.ArchiveNames(id)
	out := w.OutputPath()
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		if fi, err := os.Stat(w.LegacyOutputPath()); err == nil && fi.Size() > 0 {
			out = w.LegacyOutputPath()
		}
	}
	for _, r := range []struct{ from, to string }{
		{from: w.InputPath(), to: input},
		{from: out, to: output},
	} {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 50 * time.Millisecond
		err := backoff.RetryNotify(
			func() error { return os.Rename(r.from, r.to) },
			backoff.WithMaxRetries(b, 3),
			notify,
		)
		if err != nil {
			return fmt.Errorf("pdep: archiving %s: %w", r.from, err)
		}
	}
	return nil
}

// Close removes the scratch directory of an isolated workspace.
// It does nothing for a shared workspace.
func (w Workspace) Close() error {
	if !w.Isolated {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
