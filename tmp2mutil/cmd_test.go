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

package tmp2mutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/JesseMeng-NOAA/tmp2m"
	"github.com/JesseMeng-NOAA/tmp2m/internal/cdftest"
)

func TestMain(m *testing.M) {
	Log.Out = ioutil.Discard
	os.Exit(m.Run())
}

// setenv sets a configuration environment variable for the duration
// of the test.
func setenv(t *testing.T, key, value string) {
	if err := os.Setenv(key, value); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })
}

// scenario writes the example input file to a temporary directory and
// returns its path.
func scenario(t *testing.T, f *cdftest.File) string {
	path := filepath.Join(t.TempDir(), "in.nc")
	if err := cdftest.Write(path, f); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs Root with the given arguments and returns the exit
// status and the message written for it.
func execute(args ...string) (int, string) {
	if args == nil {
		args = []string{} // Otherwise the test binary's arguments are used.
	}
	Root.SetArgs(args)
	Root.SetOutput(ioutil.Discard)
	var msg bytes.Buffer
	code := Report(&msg, Root.Execute())
	return code, msg.String()
}

func variables(t *testing.T, path string) []string {
	d, err := tmp2m.OpenDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	return d.Header.Variables()
}

func TestRoot(t *testing.T) {
	in := scenario(t, cdftest.Scenario())
	out := filepath.Join(t.TempDir(), "out.nc")

	code, msg := execute(in, out)
	if code != 0 {
		t.Fatalf("exit status %d: %s", code, msg)
	}
	want := []string{"tmp2m", "time", "lat", "lon"}
	if got := variables(t, out); !reflect.DeepEqual(got, want) {
		t.Errorf("variables: got %v, want %v", got, want)
	}
}

func TestRoot_notFound(t *testing.T) {
	f := cdftest.Scenario()
	f.Vars = f.Vars[1:] // Drop tmp2m.
	in := scenario(t, f)
	out := filepath.Join(t.TempDir(), "out.nc")

	code, msg := execute(in, out)
	if code != 1 {
		t.Errorf("exit status: got %d, want 1", code)
	}
	if want := "Error: variable 'tmp2m' not found in input file\n"; msg != want {
		t.Errorf("message: got %q, want %q", msg, want)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file should not exist: %v", err)
	}
}

func TestRoot_args(t *testing.T) {
	for _, args := range [][]string{{}, {"in.nc"}, {"in.nc", "out.nc", "extra.nc"}} {
		t.Run(fmt.Sprint(len(args)), func(t *testing.T) {
			if code, _ := execute(args...); code != 2 {
				t.Errorf("exit status: got %d, want 2", code)
			}
		})
	}
}

func TestRoot_missingInput(t *testing.T) {
	dir := t.TempDir()
	code, _ := execute(filepath.Join(dir, "missing.nc"), filepath.Join(dir, "out.nc"))
	if code != 2 {
		t.Errorf("exit status: got %d, want 2", code)
	}
}

func TestRoot_variableEnv(t *testing.T) {
	setenv(t, "TMP2M_VARIABLE", "precip")
	in := scenario(t, cdftest.Scenario())
	out := filepath.Join(t.TempDir(), "out.nc")

	if code, msg := execute(in, out); code != 0 {
		t.Fatalf("exit status %d: %s", code, msg)
	}
	want := []string{"tmp2m", "time", "lat", "lon", "precip"}
	if got := variables(t, out); !reflect.DeepEqual(got, want) {
		t.Errorf("variables: got %v, want %v", got, want)
	}
}

func TestRoot_configFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tmp2m.toml")
	if err := ioutil.WriteFile(cfg, []byte("variable = \"missing\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	setenv(t, "TMP2M_CONFIG", cfg)
	t.Cleanup(func() {
		// Forget the settings read from the file.
		empty := filepath.Join(dir, "empty.toml")
		if err := ioutil.WriteFile(empty, nil, 0644); err != nil {
			t.Fatal(err)
		}
		Cfg.SetConfigFile(empty)
		if err := Cfg.ReadInConfig(); err != nil {
			t.Fatal(err)
		}
	})
	in := scenario(t, cdftest.Scenario())

	code, msg := execute(in, filepath.Join(dir, "out.nc"))
	if code != 1 {
		t.Errorf("exit status: got %d, want 1", code)
	}
	if want := "Error: variable 'missing' not found in input file\n"; msg != want {
		t.Errorf("message: got %q, want %q", msg, want)
	}
}

func TestRoot_badLogLevel(t *testing.T) {
	setenv(t, "TMP2M_LOGLEVEL", "loud")
	in := scenario(t, cdftest.Scenario())
	if code, _ := execute(in, filepath.Join(t.TempDir(), "out.nc")); code != 2 {
		t.Errorf("exit status: got %d, want 2", code)
	}
}

func TestRoot_badRetries(t *testing.T) {
	setenv(t, "TMP2M_RETRIES", "-1")
	in := scenario(t, cdftest.Scenario())
	if code, _ := execute(in, filepath.Join(t.TempDir(), "out.nc")); code != 2 {
		t.Errorf("exit status: got %d, want 2", code)
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{err: nil, code: 0, msg: ""},
		{
			err:  &tmp2m.NotFoundError{Variable: "tmp2m"},
			code: 1,
			msg:  "Error: variable 'tmp2m' not found in input file\n",
		},
		{
			err:  fmt.Errorf("tmp2m: reading: %w", &tmp2m.NotFoundError{Variable: "x"}),
			code: 1,
			msg:  "Error: tmp2m: reading: variable 'x' not found in input file\n",
		},
		{err: errors.New("accepts 2 arg(s), received 1"), code: 2, msg: "Error: accepts 2 arg(s), received 1\n"},
		{err: tmp2m.ErrUnsupportedFormat, code: 2, msg: "Error: tmp2m: unsupported file format\n"},
	}
	for _, test := range tests {
		var b bytes.Buffer
		if code := Report(&b, test.err); code != test.code {
			t.Errorf("%v: exit status got %d, want %d", test.err, code, test.code)
		}
		if b.String() != test.msg {
			t.Errorf("%v: message got %q, want %q", test.err, b.String(), test.msg)
		}
	}
}
