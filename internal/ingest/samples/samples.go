// Package samples embeds the sample uploads offered for download.
package samples

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed *.csv
var files embed.FS

// Names lists the embedded sample files.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// Open returns the contents of one sample file.
func Open(name string) ([]byte, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("sample %q: %w", name, err)
	}
	return raw, nil
}
