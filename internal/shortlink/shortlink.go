// Package shortlink turns recipe ids into short reversible codes.
package shortlink

import (
	"errors"
	"fmt"

	"github.com/sqids/sqids-go"
)

// DefaultMinLength keeps codes from revealing how small an id is
const DefaultMinLength = 5

var ErrInvalidCode = errors.New("invalid short link code")

// Codec encodes and decodes ids. Encoding is deterministic for a given alphabet.
type Codec struct {
	sq *sqids.Sqids
}

// New builds a codec. An empty alphabet selects the library default.
func New(alphabet string, minLength uint8) (*Codec, error) {
	opts := sqids.Options{MinLength: minLength}
	if alphabet != "" {
		opts.Alphabet = alphabet
	}
	sq, err := sqids.New(opts)
	if err != nil {
		return nil, fmt.Errorf("shortlink: %w", err)
	}
	return &Codec{sq: sq}, nil
}

func (c *Codec) Encode(id uint) (string, error) {
	code, err := c.sq.Encode([]uint64{uint64(id)})
	if err != nil {
		return "", fmt.Errorf("shortlink: %w", err)
	}
	return code, nil
}

// Decode returns the id behind code. Codes that do not re-encode to
// themselves are rejected so that every id has exactly one code.
func (c *Codec) Decode(code string) (uint, error) {
	ids := c.sq.Decode(code)
	if len(ids) != 1 {
		return 0, ErrInvalidCode
	}
	id := uint(ids[0])
	canonical, err := c.Encode(id)
	if err != nil || canonical != code {
		return 0, ErrInvalidCode
	}
	return id, nil
}
