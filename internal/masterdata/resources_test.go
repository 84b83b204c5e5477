package masterdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/shared"
)

func TestResourcesRoles(t *testing.T) {
	byName := make(map[string]bool)
	for _, res := range Resources() {
		require.NotNil(t, res.NewForm, res.Name)
		require.NotEmpty(t, res.Columns, res.Name)
		byName[res.Name] = true
		switch res.Name {
		case "branches", "offices", "employees":
			assert.Equal(t, shared.AdminRoles(), res.ViewRoles, res.Name)
		default:
			assert.Empty(t, res.ViewRoles, res.Name)
		}
	}
	for _, name := range LookupNames() {
		assert.True(t, byName[name], name)
	}
}
