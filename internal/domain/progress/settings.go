package progress

import "strings"

type Theme string

const (
	ThemeRelaxed Theme = "relaxed"
	ThemeFocus   Theme = "focus"
)

// ParseTheme returns ThemeRelaxed for anything unrecognised.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeFocus {
		return ThemeFocus
	}
	return ThemeRelaxed
}

// MaxNicknameLength is counted in runes.
const MaxNicknameLength = 20

// CleanNickname trims and truncates a nickname.
func CleanNickname(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > MaxNicknameLength {
		r = r[:MaxNicknameLength]
	}
	return string(r)
}

// Settings are the per-device preferences.
type Settings struct {
	Nickname string `json:"nickname"`
	Theme    Theme  `json:"theme"`
	Sound    bool   `json:"sound"`
	Mascot   bool   `json:"mascot"`
	ExamDate string `json:"exam_date"`
}
