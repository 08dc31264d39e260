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

// Package cdftest builds small NetCDF classic files for tests.
package cdftest

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"
)

// Attr is a global or variable attribute. Value must be one of
// []uint8, string, []int16, []int32, []float32 or []float64.
type Attr struct {
	Name  string
	Value interface{}
}

// Var is a variable and its contents. Data must be a slice of the
// variable's element type holding every element in row-major order,
// or a string for CHAR variables.
type Var struct {
	Name  string
	Dims  []string
	Data  interface{}
	Attrs []Attr
}

// File describes the contents of a NetCDF file. A dimension with a
// length of zero is the unlimited dimension; NumRecs records are
// written along it.
type File struct {
	Dims    []string
	Lengths []int
	NumRecs int
	Vars    []Var
	Attrs   []Attr

	// Streaming leaves the record count in the header indeterminate,
	// as streaming writers do.
	Streaming bool
}

// Write creates a NetCDF file at path holding the contents of f.
func Write(path string, f *File) error {
	h := cdf.NewHeader(f.Dims, f.Lengths)
	for _, v := range f.Vars {
		h.AddVariable(v.Name, v.Dims, zero(v.Data))
		for _, a := range v.Attrs {
			h.AddAttribute(v.Name, a.Name, a.Value)
		}
	}
	for _, a := range f.Attrs {
		h.AddAttribute("", a.Name, a.Value)
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	cf, err := cdf.Create(w, h)
	if err != nil {
		return err
	}
	for _, v := range f.Vars {
		shape := cf.Header.Lengths(v.Name)
		if cf.Header.IsRecordVariable(v.Name) {
			shape = append([]int{f.NumRecs}, shape[1:]...)
		}
		if err := writeVar(cf, v, shape); err != nil {
			return err
		}
	}
	if !f.Streaming {
		if err := padRecords(w, h, int64(f.NumRecs)); err != nil {
			return err
		}
		if err := cdf.UpdateNumRecs(w); err != nil {
			return err
		}
	}
	return w.Close()
}

// padRecords extends w so that the size of the file accounts for
// every record, which is what UpdateNumRecs counts.
func padRecords(w *os.File, h *cdf.Header, numRecs int64) error {
	fi, err := w.Stat()
	if err != nil {
		return err
	}
	for size := fi.Size(); size < fi.Size()+4; size++ {
		if h.NumRecs(size) >= numRecs {
			if size == fi.Size() {
				return nil
			}
			return w.Truncate(size)
		}
	}
	return nil
}

func writeVar(f *cdf.File, v Var, shape []int) error {
	n := 1
	begin := make([]int, len(shape))
	end := make([]int, len(shape))
	for i, l := range shape {
		end[i] = l - 1
		n *= l
	}
	if n == 0 {
		return nil
	}
	data := v.Data
	if s, ok := data.(string); ok {
		data = []byte(s)
	}
	nw, err := f.Writer(v.Name, begin, end).Write(data)
	if err == io.EOF && nw == n {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("cdftest: writing %s: %v", v.Name, err)
	}
	if nw != n {
		return fmt.Errorf("cdftest: writing %s: wrote %d of %d values", v.Name, nw, n)
	}
	return nil
}

// zero returns an empty value of the same NetCDF type as data.
func zero(data interface{}) interface{} {
	switch data.(type) {
	case []uint8:
		return []uint8{}
	case string:
		return ""
	case []int16:
		return []int16{}
	case []int32:
		return []int32{}
	case []float32:
		return []float32{}
	case []float64:
		return []float64{}
	}
	panic(fmt.Errorf("cdftest: invalid data type %T", data))
}

// Scenario returns a file with dimensions time (unlimited, 3 records),
// lat (2), lon (2) and level (4); a tmp2m(time, lat, lon) variable,
// coordinate variables for time, lat and lon, and a
// precip(time, lat, lon, level) variable that depends on level.
func Scenario() *File {
	tmp2m := make([]float32, 3*2*2)
	for i := range tmp2m {
		tmp2m[i] = 273.15 + float32(i)
	}
	precip := make([]float32, 3*2*2*4)
	for i := range precip {
		precip[i] = float32(i) / 10
	}
	return &File{
		Dims:    []string{"time", "lat", "lon", "level"},
		Lengths: []int{0, 2, 2, 4},
		NumRecs: 3,
		Vars: []Var{
			{
				Name: "tmp2m",
				Dims: []string{"time", "lat", "lon"},
				Data: tmp2m,
				Attrs: []Attr{
					{Name: "long_name", Value: "2 m above ground temperature"},
					{Name: "units", Value: "K"},
					{Name: "_FillValue", Value: []float32{9.999e20}},
				},
			},
			{
				Name:  "time",
				Dims:  []string{"time"},
				Data:  []float64{0, 6, 12},
				Attrs: []Attr{{Name: "units", Value: "hours since 2025-01-01 00:00:00"}},
			},
			{
				Name:  "lat",
				Dims:  []string{"lat"},
				Data:  []float32{40, 41},
				Attrs: []Attr{{Name: "units", Value: "degrees_north"}},
			},
			{
				Name:  "lon",
				Dims:  []string{"lon"},
				Data:  []float32{-100, -99},
				Attrs: []Attr{{Name: "units", Value: "degrees_east"}},
			},
			{
				Name:  "precip",
				Dims:  []string{"time", "lat", "lon", "level"},
				Data:  precip,
				Attrs: []Attr{{Name: "units", Value: "kg m-2"}},
			},
		},
		Attrs: []Attr{
			{Name: "title", Value: "tmp2m test file"},
			{Name: "history", Value: "created by cdftest"},
			{Name: "version", Value: []int32{2}},
		},
	}
}
