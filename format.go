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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Format is the on-disk representation of a NetCDF file.
type Format int

// The NetCDF representations that can be recognized.
const (
	FormatUnknown Format = iota
	FormatClassic
	Format64BitOffset
	FormatNetCDF4
)

// String returns the name the NetCDF libraries use for f.
func (f Format) String() string {
	switch f {
	case FormatClassic:
		return "NETCDF3_CLASSIC"
	case Format64BitOffset:
		return "NETCDF3_64BIT_OFFSET"
	case FormatNetCDF4:
		return "NETCDF4"
	}
	return "UNKNOWN"
}

// ErrUnsupportedFormat is returned when a file is not in one of the
// NetCDF classic representations.
var ErrUnsupportedFormat = errors.New("tmp2m: unsupported file format")

var (
	magicCDF = []byte("CDF")
	magicHDF = []byte("\x89HDF\r\n\x1a\n")
)

// streaming is the value of the numrecs header field when the
// number of records is not recorded in the header.
const streaming = -1

// DetectFormat reads the signature at the beginning of r and
// reports which NetCDF representation it holds.
func DetectFormat(r io.ReaderAt) (Format, error) {
	var buf [8]byte
	n, err := r.ReadAt(buf[:], 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("tmp2m: reading file signature: %v", err)
	}
	b := buf[:n]
	switch {
	case len(b) >= 4 && bytes.Equal(b[:3], magicCDF) && b[3] == 1:
		return FormatClassic, nil
	case len(b) >= 4 && bytes.Equal(b[:3], magicCDF) && b[3] == 2:
		return Format64BitOffset, nil
	case bytes.Equal(b, magicHDF):
		return FormatNetCDF4, nil
	}
	return FormatUnknown, nil
}

// readNumRecs returns the numrecs field of a classic header,
// or streaming if the writer left it indeterminate.
func readNumRecs(r io.ReaderAt) (int64, error) {
	var buf [4]byte
	if _, err := r.ReadAt(buf[:], 4); err != nil {
		return 0, err
	}
	return int64(int32(binary.BigEndian.Uint32(buf[:]))), nil
}

// writeNumRecs stores n in the numrecs field of a classic header.
func writeNumRecs(w io.WriterAt, n int64) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(int32(n)))
	_, err := w.WriteAt(buf[:], 4)
	return err
}
