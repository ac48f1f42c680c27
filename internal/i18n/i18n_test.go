package i18n

import "testing"

func TestTranslatorResolvesKeys(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := tr.T("tab.breakdown"); got != "Breakdown" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := tr.T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestTranslatorChineseWithEnglishFallback(t *testing.T) {
	tr, err := New("zh")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := tr.T("tab.breakdown"); got != "伤害明细" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestTranslatorUnknownLangFallsBack(t *testing.T) {
	tr, err := New("fr")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tr.Lang() != "en" {
		t.Fatalf("expected fallback to en, got %q", tr.Lang())
	}
}

func TestSetLang(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !tr.SetLang("zh") {
		t.Fatalf("expected zh to be available")
	}
	if tr.SetLang("xx") {
		t.Fatalf("expected unknown lang to be rejected")
	}
	if tr.Lang() != "zh" {
		t.Fatalf("expected lang to stay zh, got %q", tr.Lang())
	}
}

func TestToggleCyclesLanguages(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	langs := tr.Languages()
	if len(langs) < 2 {
		t.Fatalf("expected at least 2 languages, got %v", langs)
	}
	seen := map[string]bool{tr.Lang(): true}
	for i := 1; i < len(langs); i++ {
		seen[tr.Toggle()] = true
	}
	if len(seen) != len(langs) {
		t.Fatalf("toggle did not visit all languages: %v of %v", seen, langs)
	}
	if tr.Toggle() != "en" {
		t.Fatalf("expected toggle to wrap back to en")
	}
}
