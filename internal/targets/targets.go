// Package targets reads the URL lists handed to the scanner.
package targets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadFile reads a newline-delimited URL list. Blank lines and lines
// starting with # are skipped. URLs are kept verbatim and in file order;
// duplicates are preserved.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URLs file: %w", err)
	}
	defer f.Close()

	urls, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading URLs file %s: %w", path, err)
	}
	return urls, nil
}

// Read parses a URL list from r using the same rules as LoadFile.
func Read(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Split breaks a free-text answer into URLs on any whitespace.
func Split(s string) []string {
	return strings.Fields(s)
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
