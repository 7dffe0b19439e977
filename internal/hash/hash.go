/*
Copyright © 2026 the PDep authors.
This file is part of PDep.

PDep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDep.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hash computes fingerprints of solver inputs and network
// descriptions.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Hash returns a hex fingerprint of object. Byte slices and strings
// are hashed as is. Other values are gob encoded, or dumped with spew
// if gob cannot encode them (e.g., interface fields).
func Hash(object interface{}) string {
	h := fnv.New128a()
	switch v := object.(type) {
	case []byte:
		h.Write(v)
	case string:
		h.Write([]byte(v))
	default:
		if err := gob.NewEncoder(h).Encode(object); err != nil {
			h.Reset()
			printer.Fprintf(h, "%#v", object)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
