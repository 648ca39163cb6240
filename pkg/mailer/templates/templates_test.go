package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := ToMap(EmailData{Name: "Ann", Email: "a@x.com", ProfileURL: "http://localhost/create-profile"})

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to DevConnector, Ann", subject)
	assert.Contains(t, text, "a@x.com")
	assert.Contains(t, text, "http://localhost/create-profile")
	assert.Contains(t, html, "<strong>a@x.com</strong>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}
