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

import "github.com/ctessum/cdf"

// CopySet returns the names of the variables in h that are extracted
// along with the variable named target, in file order. A variable is
// included if it is the target itself, if it is a coordinate variable
// (it has the same name as a dimension of the file), or if every one of
// its dimensions is also a dimension of the target. Scalar variables
// satisfy the last condition.
func CopySet(h *cdf.Header, target string) []string {
	targetDims := make(map[string]bool)
	for _, d := range h.Dimensions(target) {
		targetDims[d] = true
	}
	fileDims := make(map[string]bool)
	for _, d := range h.Dimensions("") {
		fileDims[d] = true
	}
	var vars []string
	for _, v := range h.Variables() {
		if selected(v, h.Dimensions(v), target, fileDims, targetDims) {
			vars = append(vars, v)
		}
	}
	return vars
}

func selected(v string, varDims []string, target string, fileDims, targetDims map[string]bool) bool {
	if v == target || fileDims[v] {
		return true
	}
	for _, d := range varDims {
		if !targetDims[d] {
			return false
		}
	}
	return true
}
