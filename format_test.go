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

package tmp2m

import (
	"bytes"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "classic", data: []byte("CDF\x01\x00\x00\x00\x03"), want: FormatClassic},
		{name: "64-bit offset", data: []byte("CDF\x02\xff\xff\xff\xff"), want: Format64BitOffset},
		{name: "netcdf4", data: []byte("\x89HDF\r\n\x1a\n\x00\x00"), want: FormatNetCDF4},
		{name: "cdf5", data: []byte("CDF\x05\x00\x00\x00\x00"), want: FormatUnknown},
		{name: "short", data: []byte("CD"), want: FormatUnknown},
		{name: "empty", data: nil, want: FormatUnknown},
		{name: "text", data: []byte("netcdf x {"), want: FormatUnknown},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := DetectFormat(bytes.NewReader(test.data))
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	for f, want := range map[Format]string{
		FormatClassic:     "NETCDF3_CLASSIC",
		Format64BitOffset: "NETCDF3_64BIT_OFFSET",
		FormatNetCDF4:     "NETCDF4",
		FormatUnknown:     "UNKNOWN",
	} {
		if got := f.String(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}

func TestNumRecs(t *testing.T) {
	b := []byte("CDF\x01\xff\xff\xff\xff")
	n, err := readNumRecs(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if n != streaming {
		t.Errorf("got %d, want streaming", n)
	}
	w := &memFile{b: b}
	if err := writeNumRecs(w, 7); err != nil {
		t.Fatal(err)
	}
	if n, _ := readNumRecs(w); n != 7 {
		t.Errorf("got %d, want 7", n)
	}
}
