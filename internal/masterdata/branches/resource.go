package branches

import (
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/shared"
)

// Resource describes the branch screens. Branches are admin-only.
func Resource() *crud.Resource {
	return &crud.Resource{
		Name:  "branches",
		Title: "resource.branches",
		Columns: []crud.Column{
			{Label: "field.code", Field: "code"},
			{Label: "field.name", Field: "name"},
			{Label: "field.name_np", Field: "name_np"},
			{Label: "field.phone", Field: "phone", Digits: true},
			{Label: "field.email", Field: "email"},
		},
		Fields: []crud.Field{
			{Name: "name", Label: "field.name", Required: true},
			{Name: "name_np", Label: "field.name_np"},
			{Name: "code", Label: "field.code", Required: true},
			{Name: "address", Label: "field.address"},
			{Name: "phone", Label: "field.phone", Kind: crud.KindNumber},
			{Name: "email", Label: "field.email", Kind: crud.KindEmail},
		},
		NewForm:     func() crud.Form { return &Form{} },
		Statuses:    []string{crud.StatusActive, crud.StatusBin},
		ViewRoles:   shared.AdminRoles(),
		EditRoles:   shared.AdminRoles(),
		Invalidates: []string{"branches", "offices"},
	}
}
