// Package hostlist reads the hosts to probe from newline-delimited text.
//
// Blank lines and lines starting with '#' are skipped. Everything else must be
// a bare hostname or IP address; order and duplicates are preserved.
package hostlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// ErrEmptyHost is reported for blank entries in an in-memory list.
var ErrEmptyHost = errors.New("empty host")

// Load reads and validates the host list stored at path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hostlist: open %q: %w", path, err)
	}
	defer f.Close()

	hosts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("hostlist: %s: %w", path, err)
	}
	return hosts, nil
}

// Parse reads one host per line. Every invalid line is reported, not just
// the first one.
func Parse(r io.Reader) ([]string, error) {
	var (
		hosts []string
		errs  error
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := check(line); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		hosts = append(hosts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, multierr.Append(errs, fmt.Errorf("read: %w", err))
	}
	if errs != nil {
		return nil, errs
	}
	return hosts, nil
}

// Validate checks an in-memory host list with the same rules as Parse.
func Validate(hosts []string) error {
	var errs error
	for i, h := range hosts {
		if err := check(h); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("hosts[%d]: %w", i, err))
		}
	}
	return errs
}

func check(host string) error {
	switch {
	case host == "":
		return ErrEmptyHost
	case strings.Contains(host, "://"):
		return fmt.Errorf("%q looks like a URL, want a bare host", host)
	case strings.ContainsAny(host, "/ \t"):
		return fmt.Errorf("%q is not a valid host name", host)
	}
	return nil
}
