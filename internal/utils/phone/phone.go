// Package phone formats Brazilian phone numbers between their canonical
// digits-only form and the masked display form used by the panel.
package phone

import "strings"

// Unmask strips everything but digits, returning the canonical form.
func Unmask(masked string) string {
	var b strings.Builder
	for _, r := range masked {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// Format renders a canonical number in the panel's display mask. Inputs that
// are already masked are normalized first, so a second pass is a no-op.
// Unknown lengths are returned unchanged.
func Format(number string) string {
	if number == "" {
		return ""
	}
	d := Unmask(number)

	switch len(d) {
	case 13: // country code + 2-digit area + 5-digit prefix
		return "+" + d[0:2] + " (" + d[2:4] + ") " + d[4:9] + "-" + d[9:13]
	case 12: // country code + 2-digit area + 4-digit prefix
		return "+" + d[0:2] + " (" + d[2:4] + ") " + d[4:8] + "-" + d[8:12]
	case 11: // national mobile
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	case 10: // national landline
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	}
	return number
}

// FormatPartial applies the international input mask progressively while the
// operator types. The output is capped at a full +NN (NN) NNNNN-NNNN mask.
func FormatPartial(value string) string {
	if value == "" {
		return ""
	}
	d := Unmask(value)

	var b strings.Builder
	b.WriteByte('+')
	if len(d) > 0 {
		b.WriteString(substr(d, 0, 2))
	}
	if len(d) > 2 {
		b.WriteString(" (")
		b.WriteString(substr(d, 2, 4))
	}
	if len(d) > 4 {
		b.WriteString(") ")
		b.WriteString(substr(d, 4, 9))
	}
	if len(d) > 9 {
		b.WriteByte('-')
		b.WriteString(substr(d, 9, 13))
	}

	out := b.String()
	if len(out) > 19 {
		out = out[:19]
	}
	return out
}

func substr(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
