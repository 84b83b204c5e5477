// Package masterdata collects the reference entity screens: branches,
// offices, employees, receivers and products.
package masterdata

import (
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/masterdata/branches"
	"github.com/chalani/chalani/internal/masterdata/employees"
	"github.com/chalani/chalani/internal/masterdata/offices"
	"github.com/chalani/chalani/internal/masterdata/products"
	"github.com/chalani/chalani/internal/masterdata/receivers"
)

// Resources returns the reference entities in navigation order.
func Resources() []*crud.Resource {
	return []*crud.Resource{
		receivers.Resource(),
		products.Resource(),
		offices.Resource(),
		branches.Resource(),
		employees.Resource(),
	}
}

// LookupNames lists every resource whose active records feed a select.
func LookupNames() []string {
	return []string{"branches", "offices", "employees", "receivers", "products"}
}
