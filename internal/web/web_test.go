package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", BRL(0))
	assert.Equal(t, "R$ 120,00", BRL(120))
	assert.Equal(t, "R$ 1.234,50", BRL(1234.5))
	assert.Equal(t, "R$ 1.000.000,00", BRL(1000000))
	assert.Equal(t, "-R$ 45,50", BRL(-45.5))
}

func TestTemplatesParse(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"auth.html", "unauthorized.html", "loading.html", "app.html", "cliente.html", "agendar.html"} {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
}

func TestUnauthorizedRenders(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, "unauthorized.html", map[string]any{"Title": "Acesso negado"}))
	assert.Contains(t, buf.String(), "Acesso não autorizado")
}
