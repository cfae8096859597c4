package ioutilx

import (
	"fmt"
	"strings"
)

// FileOrString is a flag value holding either a path to a file or the
// literal contents. A value that does not stat as a file is treated as
// the contents, with escaped newlines expanded.
type FileOrString string

func (f FileOrString) Bytes(statter Statter, reader FileReader) ([]byte, error) {
	value := string(f)

	stat, err := statter.Stat(value)
	if err != nil {
		return []byte(strings.ReplaceAll(value, "\\n", "\n")), nil
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path '%s' is a directory, not a file", value)
	}

	return reader.ReadFile(value)
}
