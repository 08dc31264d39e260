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

// Package tmp2m extracts a single variable from a NetCDF file, together
// with the coordinate and auxiliary variables that share its dimensions,
// into a new, smaller NetCDF file.
//
// The variables that travel with the target are those that are named
// after a dimension of the source file, and those whose dimensions are all
// dimensions of the target. Every dimension and every global attribute of
// the source is carried over, whether or not a retained variable uses it.
package tmp2m

// Version gives the version number.
const Version = "1.0.0"

// DefaultVariable is the name of the variable that is extracted when
// no other variable is specified.
const DefaultVariable = "tmp2m"
