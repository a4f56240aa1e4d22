package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("es-419"); got != "es-419" {
		t.Fatalf("unexpected region tag: %q", got)
	}
	if got := NormalizeTag("en--US"); got != "en-us" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("en_$"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestNeuralMTRemap(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"en":    "en-US",
		"EN":    "EN",
		"en-GB": "en-GB",
		"id":    "id",
		"ja":    "ja",
		"pt-BR": "pt-BR",
		"xx":    "xx",
	}
	for in, want := range cases {
		if got := NeuralMTRemap.Apply(in); got != want {
			t.Fatalf("remap %q: got %q want %q", in, got, want)
		}
	}
}

func TestLabelAndOptions(t *testing.T) {
	t.Parallel()

	if got := Label("id"); got != "Indonesian" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := Label("xx"); got != "" {
		t.Fatalf("expected unknown label to be empty, got %q", got)
	}
	options := Options()
	if len(options) == 0 || options[0].Code != "ar" {
		t.Fatalf("expected sorted options, got %#v", options)
	}
}
