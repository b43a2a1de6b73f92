package instant

import (
	"fmt"
	"math/big"
	"strings"
)

// DefaultLayout is the layout used by String and MarshalText.
const DefaultLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Format renders the instant in UTC with a time package layout. The layout
// must carry the four-digit year verb "2006"; it is rendered as a signed
// year of at least four digits. The two-digit year verb "06" is not
// supported.
func (i Instant) Format(layout string) (string, error) {
	if strings.Contains(strings.ReplaceAll(layout, "2006", ""), "06") {
		return "", &UnsupportedOperationError{Op: "two-digit year in layout " + layout}
	}

	// The same native value one block later renders identically except in
	// its year fields, which locates them without parsing the layout.
	t := i.nativeTime()
	shifted := t.AddDate(BlockYears, 0, 0)
	s1, s2 := t.Format(layout), shifted.Format(layout)
	if len(s1) != len(s2) {
		return "", &FormatError{Layout: layout, Reason: "native renderings differ in length"}
	}

	y1 := fmt.Sprintf("%04d", t.Year())
	y2 := fmt.Sprintf("%04d", shifted.Year())
	year := formatYear(i.Year())

	var b strings.Builder
	found := false
	for k := 0; k < len(s1); {
		if k+4 <= len(s1) && s1[k:k+4] == y1 && s2[k:k+4] == y2 {
			b.WriteString(year)
			k += 4
			found = true
			continue
		}
		if s1[k] != s2[k] {
			return "", &FormatError{Layout: layout, Reason: fmt.Sprintf("unexpected field at offset %d", k)}
		}
		b.WriteByte(s1[k])
		k++
	}

	if !found {
		return "", &FormatError{Layout: layout, Reason: "no four-digit year field"}
	}
	return b.String(), nil
}

// String renders the instant with DefaultLayout.
func (i Instant) String() string {
	s, err := i.Format(DefaultLayout)
	if err != nil {
		return i.Exact().String() + "ns"
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (i Instant) MarshalText() ([]byte, error) {
	s, err := i.Format(DefaultLayout)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Any form accepted by
// ParseString is allowed.
func (i *Instant) UnmarshalText(text []byte) error {
	parsed, err := ParseString(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// formatYear renders a signed year zero-padded to at least four digits.
func formatYear(year *big.Int) string {
	digits := new(big.Int).Abs(year).String()
	if len(digits) < 4 {
		digits = strings.Repeat("0", 4-len(digits)) + digits
	}
	if year.Sign() < 0 {
		return "-" + digits
	}
	return digits
}
