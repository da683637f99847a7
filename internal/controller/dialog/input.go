package dialog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	greetings     = map[string]bool{"oi": true, "olá": true, "ola": true, "menu": true}
	resetKeywords = map[string]bool{"reiniciar": true, "reset": true, "sair": true}
	backKeywords  = map[string]bool{"0": true, "back": true, "voltar": true}
)

var dayMonthRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)

// normalize приводит текст к виду, в котором сравниваются варианты меню
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// parseChoice разбирает номер пункта меню в диапазоне 1..n
func parseChoice(text string, n int) (int, bool) {
	choice, err := strconv.Atoi(text)
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice, true
}

// parseDayMonth разбирает дату в формате DD/MM
func parseDayMonth(text string) (day int, month time.Month, ok bool) {
	m := dayMonthRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if d < 1 || d > 31 || mo < 1 || mo > 12 {
		return 0, 0, false
	}
	return d, time.Month(mo), true
}
