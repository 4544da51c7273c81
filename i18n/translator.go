package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "property" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_input":
			return "入力値が不正です"
		case "not_reversible":
			return "逆変換できないトランスフォーマーです"
		case "conflicting_key_path":
			return "キーパスが競合しています"
		case "unresolvable":
			return "プロパティまたはキーパスを解決できません"
		case "no_concrete_type":
			return "具象モデル型を決定できません"
		case "no_adapter_for_type":
			return "モデル型のアダプターが登録されていません"
		case "invalid_value":
			return "値が不正です"
		case "missing_mandatory":
			return "必須プロパティが不足しています"
		case "merge":
			return "マージに失敗しました"
		case "missing":
			return "プロパティが存在しないため既定値を使用しました"
		}
	default: // "en"
		switch code {
		case "invalid_input":
			return "invalid input"
		case "not_reversible":
			return "transformer is not reversible"
		case "conflicting_key_path":
			return "conflicting key path"
		case "unresolvable":
			return "unresolvable property or key path"
		case "no_concrete_type":
			return "no concrete model type"
		case "no_adapter_for_type":
			return "no adapter registered for model type"
		case "invalid_value":
			return "invalid value"
		case "missing_mandatory":
			return "mandatory property missing"
		case "merge":
			return "merge failed"
		case "missing":
			return "property missing, default applied"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
