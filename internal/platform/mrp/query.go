package mrp

import (
	"fmt"
	"strings"
)

// Filter is a query expression in the provisioner's s-expression syntax,
// e.g. (= name "dut01").
type Filter string

var filterEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Filter {
	return Filter(fmt.Sprintf(`(= %s "%s")`, field, filterEscaper.Replace(value)))
}
