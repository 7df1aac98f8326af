package registry

import (
	"embed"
	"path"
	"sort"

	"github.com/pkg/errors"
)

//go:embed methods/*.json
var builtInFiles embed.FS

// BuiltInMethods parses the catalogue of predefined methods shipped with the module, sorted by ID.
func BuiltInMethods() ([]PredefinedMethod, error) {
	entries, err := builtInFiles.ReadDir("methods")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	methods := make([]PredefinedMethod, 0, len(entries))
	for _, entry := range entries {
		data, err := builtInFiles.ReadFile(path.Join("methods", entry.Name()))
		if err != nil {
			return nil, errors.WithStack(err)
		}
		method, err := ParsePredefinedMethod(data)
		if err != nil {
			return nil, errors.WithMessagef(err, "built-in method file %s", entry.Name())
		}
		methods = append(methods, *method)
	}

	sort.Slice(methods, func(i, j int) bool {
		return methods[i].ID < methods[j].ID
	})
	return methods, nil
}
