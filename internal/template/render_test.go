package template

import "testing"

func TestRender(t *testing.T) {
	body := "Я, {{ФИО}}, прошу рассмотреть заявление от {{Дата}}."
	values := map[string]string{
		"ФИО":  "Иванов",
		"Дата": "01.01.2025",
	}

	got := RenderBody(body, values)
	want := "Я, Иванов, прошу рассмотреть заявление от 01.01.2025."
	if got != want {
		t.Fatalf("RenderBody = %q, want %q", got, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	segments := Parse("{{a}}-{{b}}-{{a}}")
	values := map[string]string{"a": "1", "b": "2"}

	first := Render(segments, values)
	second := Render(segments, values)
	if first != second {
		t.Fatalf("render not deterministic: %q vs %q", first, second)
	}
	if first != "1-2-1" {
		t.Fatalf("Render = %q, want %q", first, "1-2-1")
	}
}

func TestRenderUnresolvedPlaceholderKeptVerbatim(t *testing.T) {
	got := RenderBody("Hello {{name}}, from {{city}}", map[string]string{"name": "Ada"})
	want := "Hello Ada, from {{city}}"
	if got != want {
		t.Fatalf("RenderBody = %q, want %q", got, want)
	}
}

func TestRenderValueNotReExpanded(t *testing.T) {
	// A value shaped like a placeholder must be inserted literally.
	got := RenderBody("{{a}} {{b}}", map[string]string{
		"a": "{{b}}",
		"b": "x",
	})
	want := "{{b}} x"
	if got != want {
		t.Fatalf("RenderBody = %q, want %q", got, want)
	}
}

func TestRenderCaseSensitiveNames(t *testing.T) {
	got := RenderBody("{{Name}}", map[string]string{"name": "lower"})
	want := "{{Name}}"
	if got != want {
		t.Fatalf("RenderBody = %q, want %q", got, want)
	}
}
