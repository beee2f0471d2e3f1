package table

import (
	"regexp"
	"time"

	"golang.org/x/text/language"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?$`)

// dateLayout returns the short date layout for a locale.
func dateLayout(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "02.01.2006"
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return "01/02/2006"
	case "ru", "de", "uk", "be", "kk", "pl", "cs":
		return "02.01.2006"
	default:
		return "2006-01-02"
	}
}

// DateLayout returns the short date layout used for locale.
func DateLayout(locale string) string {
	return dateLayout(locale)
}

// Format renders a raw cell value for display: empty and falsy values
// (nil, "", false, numeric zero) become "", ISO dates are shown in the
// locale's short date layout and anything else is converted to a string.
func Format(v any, layout string) string {
	if isFalsy(v) {
		return ""
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout)
	case string:
		if isoDate.MatchString(t) {
			if d, err := time.Parse(time.DateOnly, t[:10]); err == nil {
				return d.Format(layout)
			}
		}
		return t
	}
	return toString(v)
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case time.Time:
		return t.IsZero()
	}
	if n, ok := toNumber(v); ok {
		if _, isString := v.(string); !isString {
			return n == 0
		}
	}
	return false
}
