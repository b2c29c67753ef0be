package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilename подставляется, если от имени файла ничего не осталось
const DefaultFilename = "attachment"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename очищает имя файла от каталогов и небезопасных символов
// "../../etc/passwd" превращается в "etc_passwd"
func SecureFilename(name string) string {
	// Раскладываем символы (é → e + ударение) и выкидываем всё не-ASCII
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = ""
	}

	// Разделители путей — в пробелы, пробелы — в подчёркивания
	ascii = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	ascii = strings.Trim(ascii, "._")

	if ascii == "" {
		return DefaultFilename
	}
	return ascii
}
