package validate

import "strings"

// minMatchedDigits is the trust threshold for the masked-account match.
// Display UIs and inquiry services mask most digits of an account number, so
// exact matching would always fail; three corroborated digits is the accepted
// usability/security trade-off.
const minMatchedDigits = 3

// AccountMatch reports whether actual corroborates expected under the
// masked-digit scheme. Dash separators are stripped from both sides first and
// the stripped strings must be the same length. Non-digit positions in
// expected are treated as masked and contribute nothing; a position counts as
// matched only when both sides hold the same digit.
func AccountMatch(expected, actual string) bool {
	e := strings.ReplaceAll(expected, "-", "")
	a := strings.ReplaceAll(actual, "-", "")
	if len(e) != len(a) {
		return false
	}

	matched := 0
	for i := 0; i < len(e); i++ {
		if e[i] < '0' || e[i] > '9' {
			continue
		}
		if e[i] == a[i] {
			matched++
		}
	}
	return matched >= minMatchedDigits
}
