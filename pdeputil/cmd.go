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
	"os"
	"text/tabwriter"
	"time"

	"github.com/spatialmodel/pdep"
	"github.com/spatialmodel/pdep/internal/ledger"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to PDep.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Root",
			usage: `
              Root is the installation directory. Unless Solver is set,
              the solver executable is expected at
              Root/software/fame/fame.exe.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "Solver",
			usage: `
              Solver is the path to the master equation solver executable.
              It overrides the location derived from Root.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "WorkDir",
			usage: `
              WorkDir is the directory the solver runs in. Solver input and
              output files of successful runs are archived there as
              NNNN_input.txt and NNNN_output.txt, where NNNN is the network ID.`,
			defaultVal: "fame",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "Isolate",
			usage: `
              Isolate specifies whether each solver run should use its own
              scratch directory within WorkDir.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "Mode",
			usage: `
              Mode is the master equation method: either ReservoirState or
              ModifiedStrongCollision. Networks whose reservoir state results
              contain invalid rate coefficients are estimated again with
              ModifiedStrongCollision.`,
			shorthand:  "m",
			defaultVal: "ReservoirState",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags(), inputCmd.Flags()},
		},
		{
			name: "Timeout",
			usage: `
              Timeout is the longest a single solver run may take, for example
              "10m". Zero means no limit.`,
			defaultVal: time.Duration(0),
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of the Chemkin file the estimated
              net reactions are written to. It can contain environment variables.`,
			shorthand:  "o",
			defaultVal: "chem.inp",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank, the
              logfile will be saved in the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the least severe level of log messages to write:
              debug, info, warn, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "LedgerFile",
			usage: `
              LedgerFile is the SQLite database solver runs are recorded in.
              If it is blank, runs are not recorded.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags(), historyCmd.Flags()},
		},
		{
			name: "MetricsFile",
			usage: `
              MetricsFile is the path estimation metrics are written to in the
              Prometheus text format. If it is blank, no metrics are written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags()},
		},
		{
			name: "Temperature",
			usage: `
              Temperature is the reaction system temperature [K], used when
              the network file does not give one.`,
			shorthand:  "T",
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags(), gridCmd.Flags(), inputCmd.Flags()},
		},
		{
			name: "Pressure",
			usage: `
              Pressure is the reaction system pressure [bar], used when
              the network file does not give one.`,
			shorthand:  "P",
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{estimateCmd.Flags(), gridCmd.Flags(), inputCmd.Flags()},
		},
		{
			name: "Network",
			usage: `
              Network is the ID of the network to show. For history, -1
              shows all networks.`,
			shorthand:  "n",
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{historyCmd.Flags(), inputCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PDEP")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case time.Duration:
				set.DurationP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(estimateCmd)
	Root.AddCommand(gridCmd)
	Root.AddCommand(inputCmd)
	Root.AddCommand(historyCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("pdep: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "pdep",
	Short: "Pressure-dependent rate coefficients from a master equation solver.",
	Long: `PDep estimates phenomenological pressure-dependent rate coefficients k(T, P)
for networks of unimolecular and multimolecular wells connected by elementary
path reactions. It writes an input file for the FAME master equation solver,
runs the solver, and reads the fitted Chebyshev rate surfaces back.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PDEP_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of PDep.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("PDep v%s\n", pdep.Version)
	},
	DisableAutoGenTag: true,
}

// estimateCmd estimates the networks in a network file.
var estimateCmd = &cobra.Command{
	Use:   "estimate networkfile",
	Short: "Estimate pressure-dependent kinetics",
	Long: `estimate runs the master equation solver for every network in the
TOML network file and writes the resulting net reactions to OutputFile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readEstimatorConfig(Cfg)
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cmd.ErrOrStderr(), args[0], cfg)
	},
	DisableAutoGenTag: true,
}

// gridCmd prints the energy grid planned for each network.
var gridCmd = &cobra.Command{
	Use:   "grid networkfile",
	Short: "Print the energy grains of each network",
	Long: `grid prints the minimum and maximum grain energies and the grain size
that the solver would be run with for each network in the network file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModel(args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NETWORK\tWELLS\tMIN [kJ/mol]\tMAX [kJ/mol]\tSIZE [kJ/mol]")
		for _, n := range m.Networks {
			g := pdep.EnergyGrid(n.UniIsomers, n.MultiIsomers)
			fmt.Fprintf(w, "%d\t%d+%d\t%g\t%g\t%g\n", n.ID, len(n.UniIsomers), len(n.MultiIsomers), g.Min, g.Max, g.Size)
		}
		return w.Flush()
	},
	DisableAutoGenTag: true,
}

// inputCmd writes the solver input file of one network without
// running the solver.
var inputCmd = &cobra.Command{
	Use:   "input networkfile",
	Short: "Print the solver input for a network",
	Long: `input writes the solver input file that would be used for the network
given by --Network to standard output, without running the solver.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := pdep.ParseMode(Cfg.GetString("Mode"))
		if err != nil {
			return err
		}
		m, err := loadModel(args[0])
		if err != nil {
			return err
		}
		id := Cfg.GetInt("Network")
		n := m.Network(id)
		if n == nil {
			return fmt.Errorf("pdep: network %d is not in %s", id, args[0])
		}
		return WriteInput(cmd.OutOrStdout(), m, n, mode)
	},
	DisableAutoGenTag: true,
}

// historyCmd lists the solver runs in the ledger.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded solver runs",
	Long:  `history lists the solver runs recorded in LedgerFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := os.ExpandEnv(Cfg.GetString("LedgerFile"))
		if path == "" {
			return fmt.Errorf("pdep: the LedgerFile configuration variable needs to be set")
		}
		l, err := ledger.Open(path)
		if err != nil {
			return err
		}
		defer l.Close()
		entries, err := l.List(context.Background(), cast.ToInt(Cfg.Get("Network")))
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), entries)
	},
	DisableAutoGenTag: true,
}

func loadModel(path string) (*Model, error) {
	nf, err := ReadNetworkFile(path)
	if err != nil {
		return nil, err
	}
	return nf.Load(Cfg.GetFloat64("Temperature"), Cfg.GetFloat64("Pressure"))
}
