package loaders

import (
	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/loaders/csv"
	"github.com/custodia-labs/chunka-cli/internal/loaders/directory"
	"github.com/custodia-labs/chunka-cli/internal/loaders/jsonfile"
)

// RegisterDefaults registers all built-in loaders with the factory.
// Call this during application initialisation to enable standard loaders.
func RegisterDefaults(f *Factory) {
	f.Register("csv", buildCSV)
	f.Register("jsonfile", buildJSONFile)
	f.Register("directory", buildDirectory)
}

// buildCSV creates a CSV loader from source configuration.
// Supported config keys:
//   - delimiter (string): Field separator, first rune used (default: ",")
//   - content_columns ([]string): Columns included in content
func buildCSV(source domain.Source) (driven.Loader, error) {
	var opts []csv.Option

	if d := getStringFromConfig(source.Config, "delimiter"); d != "" {
		opts = append(opts, csv.WithDelimiter([]rune(d)[0]))
	}
	if cols := getStringSliceFromConfig(source.Config, "content_columns"); cols != nil {
		opts = append(opts, csv.WithContentColumns(cols))
	}

	return csv.New(source.ID, source.Path, opts...), nil
}

// buildJSONFile creates a JSON loader from source configuration.
// Supported config keys:
//   - content_field (string): Field used as document content
//   - id_field (string): Field used as document ID
func buildJSONFile(source domain.Source) (driven.Loader, error) {
	var opts []jsonfile.Option

	if field := getStringFromConfig(source.Config, "content_field"); field != "" {
		opts = append(opts, jsonfile.WithContentField(field))
	}
	if field := getStringFromConfig(source.Config, "id_field"); field != "" {
		opts = append(opts, jsonfile.WithIDField(field))
	}

	return jsonfile.New(source.ID, source.Path, opts...), nil
}

// buildDirectory creates a directory loader from source configuration.
// Supported config keys:
//   - glob (string): Pattern matched against file base names (default: "*")
func buildDirectory(source domain.Source) (driven.Loader, error) {
	var opts []directory.Option

	if pattern := getStringFromConfig(source.Config, "glob"); pattern != "" {
		opts = append(opts, directory.WithGlob(pattern))
	}

	return directory.New(source.ID, source.Path, opts...), nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, ok := cfg[key].(string)
	if !ok {
		return ""
	}
	return s
}

// getStringSliceFromConfig safely extracts a string slice from generic
// config map. Handles []string and []any as produced by TOML/JSON parsing.
func getStringSliceFromConfig(cfg map[string]any, key string) []string {
	if cfg == nil {
		return nil
	}

	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
