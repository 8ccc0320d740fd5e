package codec

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wagiedev/capture-go/internal/errors"
)

// UTF8 is the name of the UTF-8 codec.
const UTF8 = "utf-8"

var utf8Aliases = map[string]struct{}{
	"utf-8":   {},
	"utf8":    {},
	"utf_8":   {},
	"u8":      {},
	"cp65001": {},
}

// Codec decodes and encodes one text encoding.
type Codec struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// Failure describes the first byte range a strict decode could not handle.
// Start and End are offsets into the decoded input, End exclusive.
type Failure struct {
	Start  int
	End    int
	Reason string
}

// Lookup returns the codec for name.
func Lookup(name string) (*Codec, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return nil, fmt.Errorf("%w: empty name", errors.ErrUnknownEncoding)
	}

	if _, ok := utf8Aliases[label]; ok {
		return &Codec{name: UTF8, enc: unicode.UTF8, utf8: true}, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEncoding, name)
		}
	}

	if enc == unicode.UTF8 {
		return &Codec{name: UTF8, enc: unicode.UTF8, utf8: true}, nil
	}

	return &Codec{name: canonicalName(enc, label), enc: enc}, nil
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}

	return c
}

func canonicalName(enc encoding.Encoding, label string) string {
	for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if n, err := index.Name(enc); err == nil && n != "" {
			return strings.ToLower(n)
		}
	}

	if n, err := htmlindex.Name(enc); err == nil && n != "" {
		return n
	}

	return label
}

// Name returns the canonical lowercase name of the encoding.
func (c *Codec) Name() string {
	return c.name
}

// Decode strictly decodes b into UTF-8. On failure it returns the lossy
// decoding of b together with the first failing byte range.
func (c *Codec) Decode(b []byte) ([]byte, *Failure) {
	if c.utf8 {
		if utf8.Valid(b) {
			return b, nil
		}

		return c.DecodeLossy(b), utf8Failure(b)
	}

	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return c.DecodeLossy(b), &Failure{Start: 0, End: len(b), Reason: err.Error()}
	}

	if f := c.locateReplacement(b, out); f != nil {
		return out, f
	}

	return out, nil
}

// DecodeLossy decodes b, replacing undecodable bytes with U+FFFD.
func (c *Codec) DecodeLossy(b []byte) []byte {
	out, _, err := transform.Bytes(c.enc.NewDecoder(), b)
	if err != nil {
		return []byte(strings.ToValidUTF8(string(b), string(utf8.RuneError)))
	}

	return out
}

// Encode encodes s. Characters the encoding cannot represent are an error.
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.utf8 {
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("encode %s: %w", c.name, encoding.ErrInvalidUTF8)
		}

		return []byte(s), nil
	}

	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}

	return out, nil
}

// Boundary returns how many trailing bytes of b start a character that is
// not complete yet. Those bytes must be decoded together with what follows.
func (c *Codec) Boundary(b []byte) int {
	if len(b) == 0 {
		return 0
	}

	if c.utf8 {
		return utf8Boundary(b)
	}

	dst := make([]byte, 4*len(b)+utf8.UTFMax)

	_, nSrc, err := c.enc.NewDecoder().Transform(dst, b, false)
	if stderrors.Is(err, transform.ErrShortSrc) {
		return len(b) - nSrc
	}

	return 0
}

func utf8Boundary(b []byte) int {
	lo := max(len(b)-utf8.UTFMax+1, 0)

	for i := len(b) - 1; i >= lo; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return 0
			}

			return len(b) - i
		}
	}

	return 0
}

// utf8Failure classifies the first invalid sequence in b.
func utf8Failure(b []byte) *Failure {
	_, start, _ := transform.Bytes(encoding.UTF8Validator, b)

	lead := b[start]
	need := seqLen(lead)

	if need == 0 {
		return &Failure{Start: start, End: start + 1, Reason: "invalid start byte"}
	}

	for i := 1; i < need; i++ {
		if start+i >= len(b) {
			return &Failure{Start: start, End: len(b), Reason: "unexpected end of data"}
		}

		if b[start+i]&0xC0 != 0x80 {
			return &Failure{Start: start, End: start + 1, Reason: "invalid continuation byte"}
		}
	}

	return &Failure{Start: start, End: start + 1, Reason: "invalid continuation byte"}
}

// seqLen returns the length of the UTF-8 sequence lead begins, or 0 when
// lead cannot begin one.
func seqLen(lead byte) int {
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		return 2
	case lead >= 0xE0 && lead <= 0xEF:
		return 3
	case lead >= 0xF0 && lead <= 0xF4:
		return 4
	default:
		return 0
	}
}

// locateReplacement finds the first U+FFFD in out that does not come from
// an encoded U+FFFD in src, walking src by re-encoding each decoded rune.
func (c *Codec) locateReplacement(src, out []byte) *Failure {
	if !strings.ContainsRune(string(out), utf8.RuneError) {
		return nil
	}

	enc := c.enc.NewEncoder()
	pos := 0

	for _, r := range string(out) {
		if pos >= len(src) {
			break
		}

		encoded, err := enc.Bytes([]byte(string(r)))
		if r == utf8.RuneError && (err != nil || !hasPrefix(src[pos:], encoded)) {
			return &Failure{Start: pos, End: pos + 1, Reason: c.replacementReason()}
		}

		if err != nil || len(encoded) == 0 {
			pos++

			continue
		}

		pos += len(encoded)
	}

	return nil
}

func (c *Codec) replacementReason() string {
	if _, ok := c.enc.(*charmap.Charmap); ok {
		return "character maps to <undefined>"
	}

	return "illegal multibyte sequence"
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}
