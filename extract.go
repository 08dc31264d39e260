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
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
)

// NotFoundError is returned when the variable to extract is not
// in the input file.
type NotFoundError struct {
	Variable string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("variable '%s' not found in input file", e.Variable)
}

// Extractor copies a variable and the variables that go with it from
// one NetCDF file to a new one.
type Extractor struct {
	// Variable is the name of the variable to extract. If it is
	// empty, DefaultVariable is extracted.
	Variable string

	// Log receives progress information. If it is nil, the
	// standard logrus logger is used.
	Log logrus.FieldLogger
}

// Extract extracts DefaultVariable from the NetCDF file at inputPath
// into a new NetCDF file at outputPath.
func Extract(inputPath, outputPath string) error {
	return new(Extractor).Extract(inputPath, outputPath)
}

func (e *Extractor) variable() string {
	if e.Variable == "" {
		return DefaultVariable
	}
	return e.Variable
}

func (e *Extractor) log() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// Extract copies the variable to extract from the NetCDF file at
// inputPath into a new NetCDF file at outputPath, along with the
// coordinate variables of the input file, the variables whose
// dimensions are all dimensions of the extracted variable, every
// dimension, and every global attribute. An existing file at
// outputPath is overwritten.
//
// If the variable is not in the input file, a *NotFoundError is
// returned and no output file is created. If copying fails partway,
// the incomplete output file is left in place.
func (e *Extractor) Extract(inputPath, outputPath string) error {
	src, err := OpenDataset(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if !src.HasVariable(e.variable()) {
		return &NotFoundError{Variable: e.variable()}
	}

	w, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("tmp2m: creating output file: %v", err)
	}
	defer w.Close()

	dst, err := e.extract(src, w)
	if err != nil {
		return err
	}
	if err := finishRecords(w, dst.Header, recordCount(src)); err != nil {
		return fmt.Errorf("tmp2m: finalizing output file: %v", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("tmp2m: closing output file: %v", err)
	}
	e.log().WithFields(logrus.Fields{
		"input":    inputPath,
		"output":   outputPath,
		"variable": e.variable(),
	}).Info("extraction complete")
	return nil
}

// extract defines the output header in rw and copies the selected
// variables from src into it.
func (e *Extractor) extract(src *Dataset, rw cdf.ReaderWriterAt) (*cdf.File, error) {
	target := e.variable()
	log := e.log().WithField("variable", target)

	copySet := CopySet(src.Header, target)

	dims := src.Dimensions()
	names := make([]string, len(dims))
	lengths := make([]int, len(dims))
	for i, d := range dims {
		names[i] = d.Name
		if !d.Unlimited {
			lengths[i] = d.Len
		}
	}
	h := cdf.NewHeader(names, lengths)

	for _, v := range copySet {
		h.AddVariable(v, src.Header.Dimensions(v), src.Header.ZeroValue(v, 0))
		for _, a := range src.Header.Attributes(v) {
			h.AddAttribute(v, a, src.Header.GetAttribute(v, a))
		}
		log.WithFields(logrus.Fields{
			"copy":       v,
			"dimensions": src.Header.Dimensions(v),
			"fill_value": src.Header.GetAttribute(v, "_FillValue"),
		}).Debug("defining variable")
	}
	for _, a := range src.Header.Attributes("") {
		h.AddAttribute("", a, src.Header.GetAttribute("", a))
	}
	h.Define()

	dst, err := cdf.Create(rw, h)
	if err != nil {
		return nil, fmt.Errorf("tmp2m: writing output header: %v", err)
	}
	if format, err := DetectFormat(rw); err != nil {
		return nil, err
	} else if format != src.Format {
		log.WithFields(logrus.Fields{
			"input_format":  src.Format,
			"output_format": format,
		}).Warn("output file format differs from input file format")
	}

	for _, v := range copySet {
		if err := e.copyData(dst, src.File, v, src.Shape(v)); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// recordCount returns the number of records the output file holds:
// that of the input if it has an unlimited dimension, otherwise zero.
func recordCount(src *Dataset) int64 {
	for _, d := range src.Dimensions() {
		if d.Unlimited {
			return src.NumRecs()
		}
	}
	return 0
}

// finishRecords extends f so that its last record is complete and
// stores the number of records in the header.
func finishRecords(f *os.File, h *cdf.Header, numRecs int64) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	size := fi.Size()
	// Only the final record variable of the last record can be short,
	// and only by its padding.
	padded := size
	for padded < size+4 && h.NumRecs(padded) < numRecs {
		padded++
	}
	if h.NumRecs(padded) < numRecs {
		padded = size // no record variables
	}
	if padded != size {
		if err := f.Truncate(padded); err != nil {
			return err
		}
	}
	return writeNumRecs(f, numRecs)
}
