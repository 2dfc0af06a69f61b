package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,ja;q=0.8") != "ja" {
		t.Fatalf("expected ja as second choice")
	}
	if DetectLanguage("") != "ja" {
		t.Fatalf("expected default ja")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "next") != "Next" {
		t.Fatalf("expected Next")
	}
	if T("ja", "next") != "次へ" {
		t.Fatalf("expected 次へ")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to ja translation
	if T("es", "restart") != "最初からやり直す" {
		t.Fatalf("expected ja fallback for es lang")
	}
}

func TestLangContext(t *testing.T) {
	if got := LangFromContext(context.Background()); got != "ja" {
		t.Fatalf("expected default ja, got %s", got)
	}
	ctx := WithLang(context.Background(), "en")
	if got := LangFromContext(ctx); got != "en" {
		t.Fatalf("expected en, got %s", got)
	}
}
