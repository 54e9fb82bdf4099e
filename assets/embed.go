// assets/embed.go
//
// Embedded data shipped with the binary:
//   - levels.json: the default level catalog.
//   - sql/*.sql:   results ledger migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed levels.json sql/*.sql
var FS embed.FS

// Migration is a single embedded SQL file.
type Migration struct {
	Name string
	SQL  string
}

// LevelsJSON returns the raw embedded level catalog.
func LevelsJSON() ([]byte, error) {
	return FS.ReadFile("levels.json")
}

// Migrations returns the embedded sql/*.sql files sorted by name.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(FS, "sql")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		b, err := FS.ReadFile("sql/" + e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
