package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignWhatsApp,
		Variants: []string{"Olá {{nome}}, seu plano {{plano}} está ativo!"},
	}

	_, body := svc.Render(tpl, "5511999990000", map[string]string{
		"nome":  "Maria",
		"plano": "Fibra 300MB",
	})

	assert.Equal(t, "Olá Maria, seu plano Fibra 300MB está ativo!", body)
}

func TestRenderLeavesUnknownPlaceholdersIntact(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignWhatsApp,
		Variants: []string{"Olá {{nome}}, código: {{codigo}}"},
	}

	_, body := svc.Render(tpl, "5511999990000", map[string]string{"nome": "João"})

	assert.Equal(t, "Olá João, código: {{codigo}}", body)
}

func TestRenderToleratesPlaceholderWhitespace(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignEmail,
		Subject:  strPtr("Oferta para {{ nome }}"),
		Variants: []string{"{{  nome  }}, temos novidades."},
	}

	subject, body := svc.Render(tpl, "maria@example.com", map[string]string{"nome": "Maria"})

	assert.Equal(t, "Oferta para Maria", subject)
	assert.Equal(t, "Maria, temos novidades.", body)
}

func TestRenderVariantIsDeterministicPerRecipient(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignWhatsApp,
		Variants: []string{"variante A", "variante B", "variante C"},
	}

	_, first := svc.Render(tpl, "5511988887777", nil)
	for i := 0; i < 10; i++ {
		_, again := svc.Render(tpl, "5511988887777", nil)
		assert.Equal(t, first, again, "same recipient must always get the same variant")
	}
}

func TestRenderVariantsRotateAcrossRecipients(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignWhatsApp,
		Variants: []string{"variante A", "variante B", "variante C"},
	}

	seen := map[string]bool{}
	for _, key := range []string{
		"5511900000001", "5511900000002", "5511900000003", "5511900000004",
		"5511900000005", "5511900000006", "5511900000007", "5511900000008",
	} {
		_, body := svc.Render(tpl, key, nil)
		seen[body] = true
	}

	assert.Greater(t, len(seen), 1, "rotation should spread variants across an audience")
}

func TestRenderSingleVariant(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignWhatsApp,
		Variants: []string{"única variante"},
	}

	_, body := svc.Render(tpl, "any-key", nil)
	assert.Equal(t, "única variante", body)
}

func TestRenderEmailSubject(t *testing.T) {
	svc := NewTemplateService(nil)
	tpl := &models.MessageTemplate{
		Channel:  models.CampaignEmail,
		Subject:  strPtr("Olá {{nome}}"),
		Variants: []string{"corpo"},
	}

	subject, _ := svc.Render(tpl, "x@example.com", map[string]string{"nome": "Ana"})
	assert.Equal(t, "Olá Ana", subject)

	tpl.Subject = nil
	subject, _ = svc.Render(tpl, "x@example.com", nil)
	assert.Empty(t, subject)
}

func TestVariantIndexBounds(t *testing.T) {
	for _, key := range []string{"", "a", "5511999990000", "maria@example.com"} {
		for n := 1; n <= 5; n++ {
			idx := variantIndex(key, n)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
		}
	}
}

func TestHTMLBody(t *testing.T) {
	got := HTMLBody("linha um\nlinha dois")
	assert.Equal(t, "<html><body>linha um<br>linha dois</body></html>", got)
}
