package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientForm struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Email     string   `json:"email" binding:"omitempty,email"`
	LineItems []string `json:"line_items" binding:"omitempty,max=2"`
}

func bindClientForm(t *testing.T, body string) error {
	t.Helper()
	SetupValidator()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var form clientForm
	return c.ShouldBindJSON(&form)
}

func TestBindingErrors_UsesJSONFieldNames(t *testing.T) {
	err := bindClientForm(t, `{"email": "not-an-email"}`)
	require.Error(t, err)

	details := BindingErrors(err)
	require.Len(t, details, 2)

	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "Name", "Go struct names must not leak")
}

func TestBindingErrors_Messages(t *testing.T) {
	err := bindClientForm(t, `{"email": "x", "line_items": ["a", "b", "c"]}`)
	require.Error(t, err)

	byField := make(map[string]string)
	for _, d := range BindingErrors(err) {
		byField[d.Field] = d.Message
	}

	assert.Equal(t, "This field is required", byField["name"])
	assert.Equal(t, "Invalid email format", byField["email"])
	assert.Equal(t, "Must contain at most 2 items", byField["line_items"])
}

func TestBindingErrors_NilForMalformedJSON(t *testing.T) {
	err := bindClientForm(t, `{"name": 12`)
	require.Error(t, err)

	assert.Nil(t, BindingErrors(err))
}

func TestBindingErrors_NilForNilError(t *testing.T) {
	assert.Nil(t, BindingErrors(nil))
}
