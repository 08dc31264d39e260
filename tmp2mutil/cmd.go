/*
Copyright © 2025 the tmp2m authors.
This file is part of tmp2m.

tmp2m is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tmp2m is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tmp2m.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package tmp2mutil holds the command-line interface for tmp2m.
package tmp2mutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/JesseMeng-NOAA/tmp2m"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the command.
var Log = logrus.New()

// envPrefix is the prefix of the environment variables that
// set configuration options.
const envPrefix = "TMP2M"

var options []struct {
	name, usage string
	defaultVal  interface{}
}

func init() {
	// Options are the configuration options available to tmp2m.
	// The command line only takes file paths, so options are set
	// with environment variables or a configuration file.
	options = []struct {
		name, usage string
		defaultVal  interface{}
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
		},
		{
			name: "variable",
			usage: `
              variable is the name of the variable to extract.`,
			defaultVal: tmp2m.DefaultVariable,
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the logging verbosity: one of debug, info,
              warning, or error.`,
			defaultVal: "warning",
		},
		{
			name: "retries",
			usage: `
              retries is the maximum number of times a failed download
              or upload is retried.`,
			defaultVal: 3,
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix(envPrefix)

	for _, option := range options {
		Cfg.SetDefault(option.name, option.defaultVal)
		if err := Cfg.BindEnv(option.name); err != nil {
			panic(err)
		}
		Root.Long += fmt.Sprintf("\n  %s_%s (default %q)%s\n", envPrefix,
			strings.ToUpper(option.name), cast.ToString(option.defaultVal), option.usage)
	}
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("tmp2m: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLog configures Log from the loglevel option.
func setLog() error {
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("tmp2m: loglevel: %v", err)
	}
	Log.Level = level
	Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "tmp2m <input> <output>",
	Short: "Extract variable 'tmp2m' to a new netCDF file.",
	Long: `tmp2m copies the variable 'tmp2m' from the input netCDF file into a new
netCDF file created at the output path. The coordinate variables of the
input file and every variable whose dimensions are all dimensions of
'tmp2m' are copied along with it, as are all dimensions and global
attributes.

The input may be a local file, an http(s) URL, or a blob storage location
(gs://bucket/key, s3://bucket/key, or file://directory/key). The output may
be a local file or a blob storage location.

Configuration can be changed with a configuration file (whose path is given
by the TMP2M_CONFIG environment variable) or with the following
environment variables:
`,
	Args:              cobra.ExactArgs(2),
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := Run(context.Background(), args[0], args[1])
		var nf *tmp2m.NotFoundError
		if err != nil && !errors.As(err, &nf) {
			Log.WithFields(logrus.Fields{
				"input":    args[0],
				"output":   args[1],
				"variable": Cfg.GetString("variable"),
			}).WithError(err).Error("extraction failed")
		}
		return err
	},
}

// Run extracts the configured variable from the netCDF file at input
// into a new netCDF file at output. Remote inputs are downloaded
// first and remote outputs are uploaded after a successful extraction.
func Run(ctx context.Context, input, output string) error {
	retries, err := cast.ToIntE(Cfg.Get("retries"))
	if err != nil || retries < 0 {
		return fmt.Errorf("tmp2m: invalid retries setting %v", Cfg.Get("retries"))
	}
	t := &transfers{retries: uint64(retries), log: Log}
	defer t.cleanup()

	in, err := t.maybeDownload(ctx, input)
	if err != nil {
		return err
	}
	out, err := t.maybeUpload(output)
	if err != nil {
		return err
	}

	e := &tmp2m.Extractor{
		Variable: Cfg.GetString("variable"),
		Log:      Log,
	}
	if err := e.Extract(in, out); err != nil {
		return err
	}
	return t.uploadOutput(ctx)
}

// Report writes a one-line description of err, as returned by
// Root.Execute, to w and returns the exit status for it: 0 on
// success, 1 if the variable to extract is missing from the input
// file, and 2 for any other failure.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	var nf *tmp2m.NotFoundError
	if errors.As(err, &nf) {
		return 1
	}
	return 2
}
