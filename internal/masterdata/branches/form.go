// Package branches configures the branch screens.
package branches

import (
	"net/url"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/crud"
	"github.com/chalani/chalani/internal/i18n"
)

// Form is the branch create/edit form.
type Form struct {
	Name    string `form:"name" validate:"required,max=150"`
	NameNP  string `form:"name_np" validate:"max=150"`
	Code    string `form:"code" validate:"required,max=20"`
	Address string `form:"address" validate:"max=255"`
	Phone   string `form:"phone" validate:"omitempty,phone_np"`
	Email   string `form:"email" validate:"omitempty,email,max=254"`
}

func (f *Form) Bind(values url.Values)  { crud.BindTagged(f, values) }
func (f *Form) Fill(rec backend.Record) { crud.FillTagged(f, rec) }

func (f *Form) Payload() any {
	return map[string]any{
		"name":    f.Name,
		"name_np": f.NameNP,
		"code":    f.Code,
		"address": f.Address,
		"phone":   i18n.ToASCIIDigits(f.Phone),
		"email":   f.Email,
	}
}
