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

// Command tmp2m extracts the 'tmp2m' variable, together with its
// coordinate and auxiliary variables, from a netCDF file into a new
// netCDF file.
package main

import (
	"os"

	"github.com/JesseMeng-NOAA/tmp2m/tmp2mutil"
)

func main() {
	err := tmp2mutil.Root.Execute()
	os.Exit(tmp2mutil.Report(os.Stderr, err))
}
