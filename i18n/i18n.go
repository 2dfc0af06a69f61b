// Package i18n provides the translation tables for the wizard pages.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "ja"

var translations = map[string]map[string]string{
	"ja": {
		"app_title":        "Skill-Driven Builder",
		"app_subtitle":     "AIがあなたの次なる挑戦を設計します",
		"step1_title":      "Step 1: 技術スタックを選択",
		"step2_title":      "プロジェクトを生成しますか？",
		"next":             "次へ",
		"generate":         "提案を生成する",
		"thinking":         "AIが思考中...",
		"business_goal":    "ビジネスゴール",
		"tech_challenge":   "技術的挑戦",
		"winning_decision": "勝ち筋となる意思決定",
		"restart":          "最初からやり直す",
		"selected":         "選択中",
		"none_selected":    "未選択",
		"save_failed":      "保存に失敗しました",
		"invalid_request":  "リクエストが不正です",
	},
	"en": {
		"app_title":        "Skill-Driven Builder",
		"app_subtitle":     "AI designs your next challenge",
		"step1_title":      "Step 1: Pick your tech stack",
		"step2_title":      "Generate a project?",
		"next":             "Next",
		"generate":         "Generate suggestion",
		"thinking":         "Thinking...",
		"business_goal":    "Business goal",
		"tech_challenge":   "Technical challenge",
		"winning_decision": "Winning decision",
		"restart":          "Start over",
		"selected":         "Selected",
		"none_selected":    "Nothing selected",
		"save_failed":      "Failed to save",
		"invalid_request":  "Invalid request",
	},
}

// T returns the translation of code in lang. Unknown languages fall back to
// Japanese and unknown codes are returned unchanged.
func T(lang, code string) string {
	if table, ok := translations[lang]; ok {
		if msg, ok := table[code]; ok {
			return msg
		}
	}
	if msg, ok := translations[DefaultLang][code]; ok {
		return msg
	}
	return code
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(primary) {
			return primary
		}
	}
	return DefaultLang
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang, or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
