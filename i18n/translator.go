package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for violation and warning codes.
// data provides values for the {placeholders} of the message template (for
// example "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

var catalog = map[string]map[string]string{
	"en": {
		"invalid_type":    "expected {expected}, got {actual}",
		"invalid_enum":    "value {got} is not one of {allowed}",
		"pattern":         "value {got} does not match pattern {pattern}",
		"too_small":       "must be >= {min}, got {got}",
		"too_big":         "must be <= {max}, got {got}",
		"too_short":       "length must be >= {min}, got {got}",
		"too_long":        "length must be <= {max}, got {got}",
		"required":        "required property missing: {key}",
		"unknown_key":     "additional property not allowed: {key}",
		"union_no_match":  "does not match any of the {count} alternatives",
		"one_of_mismatch": "must match exactly one of the {count} alternatives, matched {matched}",
		"false_schema":    "no value is allowed here",

		"lint_page_case":     "Page name should be UpperCamelCase: '{page}'",
		"lint_id_case":       "Component '{id}' id should be lower_snake_case",
		"lint_type_case":     "Component '{id}' type should be lower_snake_case: '{type}'",
		"lint_unknown_type":  "Component '{id}' has unknown type: '{type}'",
		"lint_missing_field": "Component '{id}' is missing: {field}",
		"lint_duplicate_id":  "Component '{id}' has a duplicate id",
	},
	"ja": {
		"invalid_type":    "型が不正です（期待: {expected}、実際: {actual}）",
		"invalid_enum":    "値 {got} は {allowed} のいずれでもありません",
		"pattern":         "値 {got} はパターン {pattern} に一致しません",
		"too_small":       "{min} 以上である必要があります（実際: {got}）",
		"too_big":         "{max} 以下である必要があります（実際: {got}）",
		"too_short":       "長さは {min} 以上である必要があります（実際: {got}）",
		"too_long":        "長さは {max} 以下である必要があります（実際: {got}）",
		"required":        "必須プロパティが不足しています: {key}",
		"unknown_key":     "未知のキーです: {key}",
		"union_no_match":  "{count} 個の候補のいずれにも一致しません",
		"one_of_mismatch": "{count} 個の候補のうちちょうど1つに一致する必要があります（一致数: {matched}）",
		"false_schema":    "この位置には値を置けません",

		"lint_page_case":     "ページ名は UpperCamelCase にしてください: '{page}'",
		"lint_id_case":       "コンポーネント '{id}' の id は lower_snake_case にしてください",
		"lint_type_case":     "コンポーネント '{id}' の type は lower_snake_case にしてください: '{type}'",
		"lint_unknown_type":  "コンポーネント '{id}' の type が未知です: '{type}'",
		"lint_missing_field": "コンポーネント '{id}' に {field} がありません",
		"lint_duplicate_id":  "コンポーネント '{id}' の id が重複しています",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalog[t.lang][code]
	if !ok {
		if tmpl, ok = catalog["en"][code]; !ok {
			return code
		}
	}
	return Expand(tmpl, data)
}

// Expand substitutes {name} placeholders in tmpl with values from data.
// Unknown placeholders are left as is.
func Expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// Languages lists the built-in catalog languages.
func Languages() []string { return []string{"en", "ja"} }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := catalog[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
