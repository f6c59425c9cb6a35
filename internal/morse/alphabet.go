// Package morse holds the International Morse code table and the
// dit/dah sequence representation shared by the decoder stages.
package morse

import "fmt"

// Dit and Dah are the element weights used throughout the decoder: a
// dah is three time units, a dit is one (ITU-R M.1677-1 §2.1).
const (
	Dit = 1
	Dah = 3
)

// Code is one letter's ordered dit/dah sequence.
type Code []int

// ParseCode converts dots/dashes notation into a Code.
func ParseCode(s string) (Code, error) {
	code := make(Code, 0, len(s))
	for i, c := range s {
		switch c {
		case '.':
			code = append(code, Dit)
		case '-':
			code = append(code, Dah)
		default:
			return nil, fmt.Errorf("invalid code character %q at index %d", c, i)
		}
	}
	return code, nil
}

// String renders the sequence back as dots and dashes. Elements other
// than Dit render as dashes, so String is total over decoder output.
func (c Code) String() string {
	buf := make([]byte, len(c))
	for i, e := range c {
		if e == Dit {
			buf[i] = '.'
		} else {
			buf[i] = '-'
		}
	}
	return string(buf)
}

// alphabet is the ITU-R M.1677-1 (10/2009) International Morse code
// assignment, keyed by dots/dashes notation. Prosigns map to
// multi-letter tokens rather than single characters.
var alphabet = map[string]string{
	// 1.1.1 Letters
	".-":    "a",
	"-...":  "b",
	"-.-.":  "c",
	"-..":   "d",
	".":     "e",
	"..-..": "é", // accented
	"..-.":  "f",
	"--.":   "g",
	"....":  "h",
	"..":    "i",
	".---":  "j",
	"-.-":   "k",
	".-..":  "l",
	"--":    "m",
	"-.":    "n",
	"---":   "o",
	".--.":  "p",
	"--.-":  "q",
	".-.":   "r",
	"...":   "s",
	"-":     "t",
	"..-":   "u",
	"...-":  "v",
	".--":   "w",
	"-..-":  "x",
	"-.--":  "y",
	"--..":  "z",

	// 1.1.2 Figures
	".----": "1",
	"..---": "2",
	"...--": "3",
	"....-": "4",
	".....": "5",
	"-....": "6",
	"--...": "7",
	"---..": "8",
	"----.": "9",
	"-----": "0",

	// 1.1.3 Punctuation marks and miscellaneous signs
	".-.-.-":   ".",
	"--..--":   ",",
	"---...":   ":",
	"..--..":   "?",
	".----.":   "’",
	"-....-":   "-",
	"-..-.":    "/",
	"-.--.":    "(",
	"-.--.-":   ")",
	".-..-.":   "“ ”", // inverted commas, sent before and after the words
	"-...-":    "=",
	"...-.":    "UNDERSTOOD",
	"........": "ERROR",
	".-.-.":    "+",
	".-...":    "WAIT",
	"...-.-":   "EOW",
	"-.-.-":    "START",
	".--.-.":   "@",
}

// reverse maps decoded text back to its dots/dashes key.
var reverse = make(map[string]string, len(alphabet))

func init() {
	for key, text := range alphabet {
		if prev, dup := reverse[text]; dup {
			panic(fmt.Sprintf("morse: %q assigned to both %q and %q", text, prev, key))
		}
		reverse[text] = key
	}
}

// Lookup returns the text assigned to a code sequence.
func Lookup(code Code) (string, bool) {
	text, ok := alphabet[code.String()]
	return text, ok
}

// Resolve maps a code sequence to its assigned text, falling back to
// the literal dots/dashes rendering for sequences outside the table.
// It never fails: an unmapped sequence is reported, not rejected.
func Resolve(code Code) string {
	if text, ok := Lookup(code); ok {
		return text
	}
	return code.String()
}

// CodeOf returns the code sequence assigned to a decoded text.
func CodeOf(text string) (Code, bool) {
	key, ok := reverse[text]
	if !ok {
		return nil, false
	}
	code, err := ParseCode(key)
	if err != nil {
		return nil, false
	}
	return code, true
}

// Codes lists every dots/dashes key in the table. Order is undefined.
func Codes() []string {
	keys := make([]string, 0, len(alphabet))
	for key := range alphabet {
		keys = append(keys, key)
	}
	return keys
}
