package files

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// UnknownName stands in for author names a file name does not carry.
const UnknownName = "Unknown"

const (
	underscoreChars = " %#@!?$^&*`,[]():;=+\"'\\"
	spaceChars      = "_%#@!?$^&*`,[]();=+\"'\\"
)

// cyrillic maps lower-case Cyrillic letters to Latin.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "jo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "c",
	'ч': "ch", 'ш': "sh", 'щ': "sh", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "ju",
	'я': "ja",
}

// CleanWithUnderscore replaces punctuation and spaces with single
// underscores and trims them from both ends.
func CleanWithUnderscore(s string) string {
	return collapse(s, underscoreChars, '_')
}

// CleanWithSpace replaces punctuation and underscores with single spaces and
// trims the result.
func CleanWithSpace(s string) string {
	return collapse(s, spaceChars, ' ')
}

func collapse(s, chars string, sep rune) string {
	var b strings.Builder
	b.Grow(len(s))
	last := rune(0)
	for _, r := range s {
		if strings.ContainsRune(chars, r) || r == sep {
			r = sep
			if last == sep {
				continue
			}
		}
		b.WriteRune(r)
		last = r
	}
	return strings.Trim(b.String(), "_ ")
}

// ToASCII transliterates Cyrillic letters, strips accents, and drops any
// other non-ASCII rune.
func ToASCII(s string) string {
	allUpper := isUpper(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		lower := unicode.ToLower(r)
		latin, ok := cyrillic[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		switch {
		case lower == r || latin == "":
			b.WriteString(latin)
		case allUpper:
			b.WriteString(strings.ToUpper(latin))
		default:
			b.WriteString(strings.ToUpper(latin[:1]) + latin[1:])
		}
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, norm.NFKD.String(b.String()))
}

func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// LibraryName turns a source file name into the name used inside the
// library: cleaned, transliterated and lower-cased.
func LibraryName(fileName string) string {
	return strings.ToLower(ToASCII(CleanWithUnderscore(fileName)))
}

// CoverName derives the cover file name from a library book file name.
func CoverName(bookFileName string) string {
	return strings.TrimSuffix(bookFileName, filepath.Ext(bookFileName)) + ".png"
}

// InfoFromFileName guesses title and author from "First Last - Title.ext".
// Without a dash the whole name is the title and the author is unknown.
func InfoFromFileName(fileName string) (string, []types.AuthorName) {
	base := stripExt(filepath.Base(fileName))
	left, right, found := strings.Cut(base, "-")
	if !found {
		return CleanWithSpace(strings.TrimSpace(base)), []types.AuthorName{{First: UnknownName, Last: UnknownName}}
	}

	title := CleanWithSpace(right)
	first, last, _ := strings.Cut(CleanWithSpace(left), " ")
	if first == "" {
		first = UnknownName
	}
	if last == "" {
		last = UnknownName
	}
	return title, []types.AuthorName{{First: first, Last: last}}
}

// stripExt removes the extension, treating ".fb2.zip" as one.
func stripExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), fb2ZipExt) {
		return name[:len(name)-len(fb2ZipExt)]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
