package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPII(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		out := PII("contato: maria.silva@example.gov.br por favor")
		assert.Equal(t, "contato: [email] por favor", out)
	})

	t.Run("cpf with separators", func(t *testing.T) {
		out := PII("CPF 123.456.789-09 informado")
		assert.Equal(t, "CPF [cpf] informado", out)
	})

	t.Run("cpf without separators", func(t *testing.T) {
		out := PII("cpf digitado 12345678909 no campo")
		assert.Equal(t, "cpf digitado [cpf] no campo", out)
	})

	t.Run("ip address", func(t *testing.T) {
		out := PII("falha no host 192.168.0.10")
		assert.Equal(t, "falha no host [ip]", out)
	})

	t.Run("phone number", func(t *testing.T) {
		out := PII("ligar para (61) 99999-1234 amanhã")
		assert.Contains(t, out, "[telefone]")
		assert.NotContains(t, out, "99999")
	})

	t.Run("multiple kinds in one value", func(t *testing.T) {
		out := PII("user@example.com ligou de 192.168.1.1 com CPF 111.222.333-44")
		assert.Contains(t, out, "[email]")
		assert.Contains(t, out, "[ip]")
		assert.Contains(t, out, "[cpf]")
		assert.NotContains(t, out, "example.com")
	})

	t.Run("clean text passes through", func(t *testing.T) {
		in := "erro ao renderizar o painel de documentos"
		assert.Equal(t, in, PII(in))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", PII(""))
	})
}
