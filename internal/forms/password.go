package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest acceptable password
const MinPasswordLength = 8

const maxSimilarity = 0.7

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		123456 1234567 12345678 123456789 1234567890 password password1 password123
		qwerty qwertyuiop qwerty123 abc123 abcdef abcd1234 111111 000000 121212
		123123 654321 666666 696969 iloveyou letmein welcome welcome1 monkey dragon
		football baseball sunshine princess shadow master superman trustno1 starwars
		whatever freedom passw0rd admin admin123 login hello123 qazwsx zaq12wsx
		1q2w3e4r 1qaz2wsx changeme secret michael jennifer charlie`) {
		commonPasswords[p] = struct{}{}
	}
}

var nonWord = regexp.MustCompile(`\W+`)

// PasswordProblems lists why password is unacceptable. attributes are the
// user's own values (username, email, names) the password must not resemble.
func PasswordProblems(password string, attributes ...string) []string {
	var problems []string
	lower := strings.ToLower(password)

	for _, attr := range attributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		parts := append(nonWord.Split(attr, -1), attr)
		similar := false
		for _, part := range parts {
			if part != "" && quickRatio(lower, part) >= maxSimilarity {
				similar = true
				break
			}
		}
		if similar {
			problems = append(problems, "The password is too similar to your personal information.")
			break
		}
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	if _, common := commonPasswords[lower]; common {
		problems = append(problems, "This password is too common.")
	}

	if password != "" && strings.Trim(password, "0123456789") == "" {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

// quickRatio is an upper bound on the similarity of a and b: twice the size of
// their common character multiset over their total length.
func quickRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	avail := map[rune]int{}
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
