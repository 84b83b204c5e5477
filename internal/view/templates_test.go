package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/shared"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(shared.NewCSRFManager("secret"))
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestNavigationByRole(t *testing.T) {
	staff := Navigation(shared.RoleStaff, "/letters/4")
	admin := Navigation(shared.RoleAdmin, "/branches")

	assert.Len(t, staff, 4)
	assert.True(t, staff[1].Active)
	assert.False(t, staff[0].Active)
	assert.Len(t, admin, 8)
	for _, item := range staff {
		assert.NotEqual(t, "/branches", item.Href)
	}
}

func TestPageUsesRequestLanguageAndUser(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/home", nil)
	ctx := i18n.WithTranslator(req.Context(), i18n.For(i18n.Nepali))
	ctx = shared.ContextWithUser(ctx, shared.CurrentUser{ID: 1, Username: "sita", Role: shared.RoleViewer})
	data := engine.Page(req.WithContext(ctx), "home.title", nil)

	assert.Equal(t, "ड्यासबोर्ड", data.Title)
	assert.Equal(t, "ne", data.Lang)
	assert.Equal(t, "१२", data.Num(12))
	assert.False(t, data.CanEdit())
	require.NotNil(t, data.User)
	assert.Equal(t, "sita", data.User.Username)
}
