// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dhaase/valuetype/internal/try"

	"github.com/stretchr/testify/assert"
)

type memResource struct {
	location string
	content  string
	openErr  error
	closeErr error
}

func (r memResource) Location() string {
	return r.location
}

func (r memResource) Open() (io.ReadCloser, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return readCloser{Reader: strings.NewReader(r.content), err: r.closeErr}, nil
}

type readCloser struct {
	io.Reader
	err error
}

func (rc readCloser) Close() error {
	return rc.err
}

func TestParse(t *testing.T) {
	t.Run("will return names in file order", func(t *testing.T) {
		testCases := []struct {
			Name    string
			Content string
			Known   []string
			Want    []string
		}{
			{
				Name:    "one per line",
				Content: "a.B\na.C\n",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "comments and blank lines",
				Content: "# providers\n\n  a.B  # first\n\t\n#a.X\na.C",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "repeated names",
				Content: "a.B\na.C\na.B\n",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "known names",
				Content: "a.B\na.C\na.D\n",
				Known:   []string{"a.C"},
				Want:    []string{"a.B", "a.D"},
			},
			{
				Name:    "crlf line endings",
				Content: "a.B\r\na.C\r\n",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "lone carriage returns",
				Content: "a.B\ra.C\r",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "mixed line endings",
				Content: "a.B\r\ra.C\n\ra.D\r\na.E",
				Want:    []string{"a.B", "a.C", "a.D", "a.E"},
			},
			{
				Name:    "comment line longer than 64 KiB",
				Content: "a.B\n# " + strings.Repeat("c", 70*1024) + "\na.C\n",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "name followed by a long comment",
				Content: "a.B # " + strings.Repeat("c", 200*1024) + "\r\na.C",
				Want:    []string{"a.B", "a.C"},
			},
			{
				Name:    "unicode identifiers",
				Content: "geld.Währung\n_internal.x1\n",
				Want:    []string{"geld.Währung", "_internal.x1"},
			},
			{
				Name:    "empty file",
				Content: "",
				Want:    nil,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				known := func(name string) bool {
					for _, k := range testCase.Known {
						if k == name {
							return true
						}
					}
					return false
				}

				names, err := Parse("a.A", memResource{location: "mem", content: testCase.Content}, known)
				if !assert.NoError(t, err) {
					return
				}
				if !assert.Equal(t, testCase.Want, names) {
					return
				}
			})
		}
	})

	t.Run("will accept a nil known func", func(t *testing.T) {
		names, err := Parse("a.A", memResource{location: "mem", content: "a.B"}, nil)
		if !assert.NoError(t, err) {
			return
		}
		if !assert.Equal(t, []string{"a.B"}, names) {
			return
		}
	})

	t.Run("will return a ConfigurationError", func(t *testing.T) {
		t.Run("if a line contains inner white space", func(t *testing.T) {
			r := memResource{location: "mem", content: "a.B\na.C a.D\n"}

			_, err := Parse("a.A", r, nil)

			var cerr ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, ErrIllegalSyntax) {
				return
			}
			if !assert.Equal(t, 2, cerr.Line) {
				return
			}
			if !assert.Equal(t, "a.A: mem:2: illegal configuration-file syntax", err.Error()) {
				return
			}
		})

		t.Run("if a line after lone carriage returns is invalid", func(t *testing.T) {
			_, err := Parse("a.A", memResource{location: "mem", content: "a.B\r\ra.C a.D\r"}, nil)

			var cerr ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, 3, cerr.Line) {
				return
			}
		})

		t.Run("if a line contains a tab between names", func(t *testing.T) {
			_, err := Parse("a.A", memResource{location: "mem", content: "a.B\ta.C"}, nil)
			if !assert.ErrorIs(t, err, ErrIllegalSyntax) {
				return
			}
		})

		t.Run("if a name does not start with a letter", func(t *testing.T) {
			_, err := Parse("a.A", memResource{location: "mem", content: "1a.B"}, nil)

			var cerr ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, ErrIllegalName) {
				return
			}
			if !assert.Equal(t, "1a.B", cerr.Provider) {
				return
			}
			if !assert.Equal(t, "a.A: mem:1: illegal provider name: 1a.B", err.Error()) {
				return
			}
		})

		t.Run("if a name contains an illegal character", func(t *testing.T) {
			_, err := Parse("a.A", memResource{location: "mem", content: "a-b.C"}, nil)
			if !assert.ErrorIs(t, err, ErrIllegalName) {
				return
			}
		})

		t.Run("if the resource can not be opened", func(t *testing.T) {
			openErr := errors.New("permission denied")

			_, err := Parse("a.A", memResource{location: "mem", openErr: openErr}, nil)
			if !assert.ErrorIs(t, err, ErrRead) {
				return
			}
			if !assert.ErrorIs(t, err, openErr) {
				return
			}
		})

		t.Run("if the resource fails to close", func(t *testing.T) {
			closeErr := errors.New("close failed")

			names, err := Parse("a.A", memResource{location: "mem", content: "a.B", closeErr: closeErr}, nil)
			if !assert.ErrorIs(t, err, ErrRead) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}

			var ce try.CloseError
			if !assert.ErrorAs(t, err, &ce) {
				return
			}
			if !assert.Nil(t, names) {
				return
			}
		})
	})

	t.Run("will keep the parse error", func(t *testing.T) {
		t.Run("if the resource also fails to close", func(t *testing.T) {
			closeErr := errors.New("close failed")

			_, err := Parse("a.A", memResource{location: "mem", content: "a b", closeErr: closeErr}, nil)
			if !assert.ErrorIs(t, err, ErrIllegalSyntax) {
				return
			}
			if !assert.NotErrorIs(t, err, closeErr) {
				return
			}
		})
	})
}

func TestScanLines(t *testing.T) {
	testCases := []struct {
		Name    string
		Data    string
		AtEOF   bool
		Advance int
		Token   []byte
	}{
		{Name: "newline", Data: "a.B\na.C", Advance: 4, Token: []byte("a.B")},
		{Name: "crlf", Data: "a.B\r\na.C", Advance: 5, Token: []byte("a.B")},
		{Name: "lone cr", Data: "a.B\ra.C", Advance: 4, Token: []byte("a.B")},
		{Name: "cr at end of buffer", Data: "a.B\r", Advance: 0, Token: nil},
		{Name: "cr at end of input", Data: "a.B\r", AtEOF: true, Advance: 4, Token: []byte("a.B")},
		{Name: "partial line", Data: "a.B", Advance: 0, Token: nil},
		{Name: "last line", Data: "a.B", AtEOF: true, Advance: 3, Token: []byte("a.B")},
		{Name: "no input", Data: "", AtEOF: true, Advance: 0, Token: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			advance, token, err := scanLines([]byte(testCase.Data), testCase.AtEOF)
			if !assert.NoError(t, err) {
				return
			}
			if !assert.Equal(t, testCase.Advance, advance) {
				return
			}
			if !assert.Equal(t, testCase.Token, token) {
				return
			}
		})
	}
}
