// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"bufio"
	"bytes"
	"math"
	"strings"
	"unicode"

	"github.com/dhaase/valuetype/internal/try"
	"github.com/dhaase/valuetype/resource"
)

// Parse reads the configuration resource r and returns the provider names it
// lists, in file order. Names for which known reports true and repeated
// names are skipped.
//
// Lines end with "\n", "\r\n" or a lone "\r" and have no length limit.
// Each line names at most one provider. Everything from the first '#' is a
// comment and surrounding white space is ignored. A name is a dotted Go
// identifier, e.g. "money.Euro".
//
// Parse does not record the names it returns anywhere. The resource is
// closed before Parse returns.
func Parse(contract string, r resource.Resource, known func(string) bool) (names []string, err error) {
	rc, err := r.Open()
	if err != nil {
		return nil, ConfigurationError{
			Contract: contract,
			Location: r.Location(),
			Reason:   ErrRead,
			Cause:    err,
		}
	}
	defer func() {
		var cerr error
		try.Close(&cerr, rc)
		if cerr == nil || err != nil {
			return
		}
		names = nil
		err = ConfigurationError{
			Contract: contract,
			Location: r.Location(),
			Reason:   ErrRead,
			Cause:    cerr,
		}
	}()

	seen := make(map[string]struct{})
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 4096), math.MaxInt)
	sc.Split(scanLines)
	for line := 1; sc.Scan(); line++ {
		name, reason := parseLine(sc.Text())
		if reason != nil {
			return nil, ConfigurationError{
				Contract: contract,
				Location: r.Location(),
				Line:     line,
				Provider: name,
				Reason:   reason,
			}
		}
		if name == "" {
			continue
		}
		if known != nil && known(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, ConfigurationError{
			Contract: contract,
			Location: r.Location(),
			Reason:   ErrRead,
			Cause:    err,
		}
	}
	return names, nil
}

// scanLines is like [bufio.ScanLines] but also ends a line at a lone '\r'.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	switch {
	case i < 0 && atEOF:
		return len(data), data, nil
	case i < 0:
		return 0, nil, nil
	case data[i] == '\n':
		return i + 1, data[:i], nil
	case i+1 < len(data) && data[i+1] == '\n':
		return i + 2, data[:i], nil
	case i+1 < len(data) || atEOF:
		return i + 1, data[:i], nil
	}
	// a '\r' at the end of the buffer may still be followed by '\n'
	return 0, nil, nil
}

// parseLine returns the provider name on ln, "" for blank lines. When the
// line is invalid the returned name is only meant for error reporting.
func parseLine(ln string) (string, error) {
	if i := strings.IndexByte(ln, '#'); i >= 0 {
		ln = ln[:i]
	}
	ln = strings.TrimSpace(ln)
	if ln == "" {
		return "", nil
	}
	if strings.ContainsAny(ln, " \t") {
		return "", ErrIllegalSyntax
	}
	if !isProviderName(ln) {
		return ln, ErrIllegalName
	}
	return ln, nil
}

func isProviderName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentStart(r) && !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
