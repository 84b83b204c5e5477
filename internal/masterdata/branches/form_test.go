package branches

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chalani/chalani/internal/shared"
	"github.com/chalani/chalani/internal/validation"
)

func TestFormValidation(t *testing.T) {
	v := validation.MustNew()

	f := &Form{}
	f.Bind(url.Values{"name": {"Kathmandu"}, "email": {"not-an-email"}})
	errs := v.Struct(f)
	assert.Equal(t, "required", errs["code"].Tag)
	assert.Equal(t, "email", errs["email"].Tag)
	assert.NotContains(t, errs, "name")

	f.Bind(url.Values{"name": {"Kathmandu"}, "code": {"KTM"}, "phone": {"०१-४४१२३४५"}})
	assert.Empty(t, v.Struct(f))
	assert.Equal(t, "01-4412345", f.Payload().(map[string]any)["phone"])
}

func TestResourceIsAdminOnly(t *testing.T) {
	res := Resource()
	assert.Equal(t, shared.AdminRoles(), res.ViewRoles)
	assert.Equal(t, "/api/branches/", res.CollectionPath())
	assert.Contains(t, res.Invalidates, "offices")
}
