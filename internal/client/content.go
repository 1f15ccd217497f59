package client

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// readLines returns lines start..end (1-based, inclusive) of a file inside
// root. Any failure, or a path escaping root, yields "".
func readLines(root, rel string, start, end int) string {
	if root == "" || rel == "" {
		return ""
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	if r, err := filepath.Rel(root, full); err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return ""
	}

	f, err := os.Open(full)
	if err != nil {
		return ""
	}
	defer f.Close()

	start = max(start, 1)
	end = max(end, start)

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		if n < start {
			continue
		}
		if n > end {
			break
		}
		lines = append(lines, strings.ToValidUTF8(scanner.Text(), "�"))
	}
	return strings.Join(lines, "\n")
}
