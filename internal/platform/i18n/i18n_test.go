package i18n

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"en":  "en",
		"HI":  "hi",
		" mr": "mr",
		"fr":  "en",
		"":    "en",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalog_MapFallsBackToDefault(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.Map("hi")["history_btn"]; got != "इतिहास" {
		t.Fatalf("unexpected hindi history_btn %q", got)
	}
	if got := c.Map("de")["logout"]; got != "Logout" {
		t.Fatalf("expected english fallback, got %q", got)
	}

	// la copia no debe alterar el catálogo
	m := c.Map("en")
	m["logout"] = "changed"
	if c.Map("en")["logout"] != "Logout" {
		t.Fatalf("Map must return a copy")
	}
}

func TestParse_RequiresDefault(t *testing.T) {
	if _, err := Parse([]byte("hi:\n  a: b\n")); err == nil {
		t.Fatalf("expected error when default language is missing")
	}
}
