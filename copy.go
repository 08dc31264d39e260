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
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
)

// errShortTransfer is returned when a write stores fewer elements
// than it was given without reporting why.
var errShortTransfer = errors.New("short transfer")

// isTransient reports whether a failed copy is worth retrying with
// smaller transfers. Read errors are never transient: a read that
// comes up short means the input is damaged.
func isTransient(err error) bool {
	return errors.Is(err, errShortTransfer) ||
		errors.Is(err, io.ErrShortWrite) ||
		errors.Is(err, syscall.ENOMEM) ||
		errors.Is(err, syscall.EAGAIN)
}

// extent returns the corners of the hyperslab covering all of shape
// and the number of elements it holds. The end corner is inclusive.
func extent(shape []int) (begin, end []int, n int) {
	begin = make([]int, len(shape))
	end = make([]int, len(shape))
	n = 1
	for i, l := range shape {
		end[i] = l - 1
		n *= l
	}
	return begin, end, n
}

func readSlab(f *cdf.File, v string, begin, end []int, n int) (interface{}, error) {
	r := f.Reader(v, begin, end)
	buf := r.Zero(n)
	nr, err := r.Read(buf)
	if err == io.EOF && nr == n {
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("tmp2m: reading variable %s: %w", v, err)
	}
	return buf, nil
}

func writeSlab(f *cdf.File, v string, begin, end []int, buf interface{}, n int) error {
	w := f.Writer(v, begin, end)
	nw, err := w.Write(buf)
	if err == io.EOF && nw == n {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("tmp2m: writing variable %s: %w", v, err)
	}
	if nw < n {
		return fmt.Errorf("tmp2m: writing variable %s: wrote %d of %d elements: %w", v, nw, n, errShortTransfer)
	}
	return nil
}

func copySlab(dst, src *cdf.File, v string, begin, end []int, n int) error {
	buf, err := readSlab(src, v, begin, end, n)
	if err != nil {
		return err
	}
	return writeSlab(dst, v, begin, end, buf, n)
}

// copyData copies all of the data of variable v, whose realized
// lengths are shape, from src to dst. The whole variable is moved in
// one transfer; if that fails in a way that smaller transfers could
// avoid, the copy is retried once, one slab of the outermost
// dimension at a time. This goes further than repeating the bulk
// transfer; both write the same bytes.
func (e *Extractor) copyData(dst, src *cdf.File, v string, shape []int) error {
	begin, end, n := extent(shape)
	if n == 0 {
		return nil
	}
	err := copySlab(dst, src, v, begin, end, n)
	if err == nil || !isTransient(err) {
		return err
	}
	e.log().WithFields(logrus.Fields{
		"variable": v,
		"error":    err,
	}).Warn("bulk copy failed; retrying one slab at a time")
	return copySlabs(dst, src, v, shape)
}

// copySlabs copies variable v one index of its outermost dimension
// at a time.
func copySlabs(dst, src *cdf.File, v string, shape []int) error {
	if len(shape) == 0 {
		begin, end, n := extent(shape)
		return copySlab(dst, src, v, begin, end, n)
	}
	_, innerEnd, n := extent(shape[1:])
	for i := 0; i < shape[0]; i++ {
		begin := make([]int, len(shape))
		begin[0] = i
		end := append([]int{i}, innerEnd...)
		if err := copySlab(dst, src, v, begin, end, n); err != nil {
			return err
		}
	}
	return nil
}
