// Package codec validates and decodes transport-encoded endpoint payloads.
//
// Payloads travel as standard base64 with '=' padding. Decoding failure is an
// expected outcome reported as ok=false, never as a panic or error value.
package codec

import (
	"unicode/utf8"

	cristalbase64 "github.com/cristalhq/base64"
)

// Codec decodes endpoint payloads. The zero value is not usable; use New.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	requireUTF8 bool
	maxDecoded  int
}

// Option configures a Codec.
type Option func(*Codec)

// WithRequireUTF8 makes Decode reject payloads whose decoded bytes are not valid UTF-8 text.
func WithRequireUTF8(on bool) Option {
	return func(c *Codec) { c.requireUTF8 = on }
}

// WithMaxDecodedSize rejects payloads decoding to more than n bytes. n <= 0 disables the limit.
func WithMaxDecodedSize(n int) Option {
	return func(c *Codec) { c.maxDecoded = n }
}

// New constructs a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Decode validates raw and returns its decoded bytes.
// A nil raw (absent payload) or any malformed input yields ok=false.
// The empty string is valid and decodes to a non-nil zero-length slice.
func (c *Codec) Decode(raw *string) ([]byte, bool) {
	if raw == nil {
		return nil, false
	}
	s := *raw
	if !Valid(s) {
		return nil, false
	}
	if c.maxDecoded > 0 && DecodedLen(s) > c.maxDecoded {
		return nil, false
	}
	if s == "" {
		return []byte{}, true
	}
	out, err := cristalbase64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	if out == nil {
		out = []byte{}
	}
	if c.requireUTF8 && !utf8.Valid(out) {
		return nil, false
	}
	return out, true
}

// Encode returns the standard padded base64 form of b.
func (c *Codec) Encode(b []byte) string { return Encode(b) }

// Encode returns the standard padded base64 form of b.
func Encode(b []byte) string {
	return cristalbase64.StdEncoding.EncodeToString(b)
}

// Valid reports whether s is syntactically valid padded standard base64:
// length is a multiple of 4, only the standard alphabet is used, and '='
// appears at most twice and only at the end.
func Valid(s string) bool {
	if len(s)%4 != 0 {
		return false
	}
	pad := 0
	for i := len(s) - 1; i >= 0 && s[i] == '='; i-- {
		pad++
	}
	if pad > 2 {
		return false
	}
	for i := 0; i < len(s)-pad; i++ {
		if !isAlphabet(s[i]) {
			return false
		}
	}
	return true
}

// DecodedLen returns the number of bytes a Valid string decodes to.
func DecodedLen(s string) int {
	if s == "" {
		return 0
	}
	n := len(s) / 4 * 3
	switch {
	case len(s) >= 2 && s[len(s)-2] == '=':
		n -= 2
	case s[len(s)-1] == '=':
		n--
	}
	return n
}

func isAlphabet(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '+', b == '/':
		return true
	}
	return false
}
