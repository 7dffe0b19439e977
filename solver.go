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
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"time"
)

// ExecutablePath returns the conventional location of the solver
// executable within the installation directory root.
func ExecutablePath(root string) string {
	return filepath.Join(root, "software", "fame", "fame.exe")
}

// Solver runs the external master equation solver.
type Solver struct {
	// Path is the location of the solver executable.
	Path string

	// Timeout is the longest the solver is allowed to run.
	// Zero means no limit.
	Timeout time.Duration
}

// Run truncates the output file in ws and runs the solver in ws.Dir,
// blocking until it exits. Failures are returned as *SolverError.
func (s Solver) Run(ctx context.Context, ws Workspace) error {
	if err := ws.touchOutput(); err != nil {
		return err
	}
	path, err := filepath.Abs(s.Path)
	if err != nil {
		return &SolverError{Kind: SolverLaunch, Err: err}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path)
	cmd.Dir = ws.Dir
	// Don't wait on descendants that keep the output pipes open
	// after the solver itself has been killed.
	cmd.WaitDelay = time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err = cmd.Start()
	started := err == nil
	if started {
		err = cmd.Wait()
	}
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return &SolverError{Kind: SolverTimeout, Output: out.Bytes(), Err: ctxErr}
	case errors.Is(ctxErr, context.Canceled):
		return &SolverError{Kind: SolverCanceled, Output: out.Bytes(), Err: ctxErr}
	}
	if !started {
		return &SolverError{Kind: SolverLaunch, Err: err}
	}
	if err != nil {
		se := &SolverError{Kind: SolverExit, ExitCode: -1, Output: out.Bytes(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			se.ExitCode = exitErr.ExitCode()
		}
		return se
	}
	return nil
}
