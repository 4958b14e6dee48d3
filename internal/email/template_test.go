package email

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	ts := NewTemplateService()

	out := ts.Render("", "Hello {{ name }}!", map[string]interface{}{"name": "Stan"})
	if out != "Hello Stan!" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderDefaultFilter(t *testing.T) {
	ts := NewTemplateService()

	out := ts.Render("", `Hi {{ name | default: "there" }}`, map[string]interface{}{})
	if out != "Hi there" {
		t.Fatalf("got %q", out)
	}

	out = ts.Render("", `Hi {{ name | default: "there" }}`, map[string]interface{}{"name": "Stan"})
	if out != "Hi Stan" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderFallsBackToRawOnBadTemplate(t *testing.T) {
	ts := NewTemplateService()

	raw := "Hello {% if %}"
	out := ts.Render("", raw, map[string]interface{}{})
	if out != raw {
		t.Fatalf("expected raw template back, got %q", out)
	}
}

func TestRenderUsesCache(t *testing.T) {
	ts := NewTemplateService()

	first := ts.Render("greeting", "Hi {{ name }}", map[string]interface{}{"name": "A"})
	second := ts.Render("greeting", "ignored because cached", map[string]interface{}{"name": "B"})

	if first != "Hi A" || second != "Hi B" {
		t.Fatalf("got %q then %q", first, second)
	}
}

func TestParseRejectsBadSyntax(t *testing.T) {
	ts := NewTemplateService()

	if err := ts.Parse("{{ ok }}"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	if err := ts.Parse("{% if %}"); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestMaskEmailFilter(t *testing.T) {
	ts := NewTemplateService()

	out := ts.Render("", "{{ email | mask_email }}", map[string]interface{}{"email": "john@example.com"})
	if strings.Contains(out, "john@") {
		t.Fatalf("email not masked: %q", out)
	}
}
