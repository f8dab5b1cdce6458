package lsp

import (
	"strings"

	"github.com/fujidana/specref/am"
)

// SettingsSection is the configuration section clients send settings under
const SettingsSection = "spec-command"

const (
	settingMotors   = "mnemonic.motors"
	settingCounters = "mnemonic.counters"
	settingSnippets = "editor.codeSnippets"
	settingPreview  = "editor.showReferenceManualInPreview"
)

// parseSettings reads the client's spec-command settings. Keys the client
// did not send stay nil. Both nested objects and dotted keys are accepted.
func parseSettings(settings any) (am.ClientSettings, bool) {
	var out am.ClientSettings

	root, ok := settings.(map[string]any)
	if !ok {
		return out, false
	}
	if section, ok := root[SettingsSection].(map[string]any); ok {
		root = section
	}

	if v, ok := lookupSetting(root, settingMotors); ok {
		list := stringList(v)
		out.Motors = &list
	}
	if v, ok := lookupSetting(root, settingCounters); ok {
		list := stringList(v)
		out.Counters = &list
	}
	if v, ok := lookupSetting(root, settingSnippets); ok {
		list := stringList(v)
		out.CodeSnippets = &list
	}
	if v, ok := lookupSetting(root, settingPreview); ok {
		if b, isBool := v.(bool); isBool {
			out.ShowReferenceManualInPreview = &b
		}
	}
	return out, out.Any()
}

func lookupSetting(root map[string]any, key string) (any, bool) {
	if v, ok := root[key]; ok {
		return v, true
	}
	var cur any = root
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// stringList keeps the string elements of a JSON array and drops the rest
func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		if ss, isStrings := v.([]string); isStrings {
			return append([]string(nil), ss...)
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
