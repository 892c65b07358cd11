package splitters

import (
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/splitters/markdown"
	"github.com/custodia-labs/chunka-cli/internal/splitters/recursive"
	"github.com/custodia-labs/chunka-cli/internal/splitters/token"
)

// RegisterDefaults registers all built-in splitters with the registry.
// Call this during application initialisation to enable standard splitters.
func RegisterDefaults(r *Registry) {
	r.Register("recursive", buildRecursive)
	r.Register("markdown", buildMarkdown)
	r.Register("token", buildToken)
}

// buildRecursive creates a recursive splitter from generic config.
// Supported config keys:
//   - chunk_size (int): Runes per chunk (default: 1000)
//   - overlap (int): Overlapping runes between chunks (default: 200)
//   - separators ([]string): Separator candidates, most-preferred first
func buildRecursive(cfg map[string]any) (driven.Splitter, error) {
	var opts []recursive.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, recursive.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, recursive.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
		if seps := getStringSliceFromConfig(cfg, "separators"); seps != nil {
			opts = append(opts, recursive.WithSeparators(seps))
		}
	}

	return recursive.New(opts...)
}

// buildMarkdown creates a markdown splitter from generic config.
// Supported config keys:
//   - headings ([]map): Ordered marker definitions, each with
//     "prefix" and "label" string entries
func buildMarkdown(cfg map[string]any) (driven.Splitter, error) {
	var opts []markdown.Option

	if cfg != nil {
		if headings := getHeadingsFromConfig(cfg, "headings"); headings != nil {
			opts = append(opts, markdown.WithHeadings(headings))
		}
	}

	return markdown.New(opts...)
}

// buildToken creates a token splitter from generic config.
// Supported config keys:
//   - max_tokens (int): Tokens per chunk (default: 512)
//   - overlap_tokens (int): Overlapping tokens between chunks (default: 64)
//   - encoding (string): tiktoken encoding name (default: "cl100k_base")
func buildToken(cfg map[string]any) (driven.Splitter, error) {
	var opts []token.Option

	if cfg != nil {
		if max := getIntFromConfig(cfg, "max_tokens"); max > 0 {
			opts = append(opts, token.WithMaxTokens(max))
		}
		if _, ok := cfg["overlap_tokens"]; ok {
			opts = append(opts, token.WithOverlapTokens(getIntFromConfig(cfg, "overlap_tokens")))
		}
		if encoding := getStringFromConfig(cfg, "encoding"); encoding != "" {
			opts = append(opts, token.WithEncoder(token.NewTiktokenEncoder(encoding)))
		}
	}

	return token.New(opts...)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	val, ok := cfg[key]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}

// getStringSliceFromConfig safely extracts a string slice from generic
// config map. Handles []string and []any as produced by TOML/JSON parsing.
func getStringSliceFromConfig(cfg map[string]any, key string) []string {
	val, ok := cfg[key]
	if !ok {
		return nil
	}

	switch v := val.(type) {
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

// getHeadingsFromConfig extracts ordered heading definitions from
// generic config. Each entry must carry "prefix" and "label" strings.
func getHeadingsFromConfig(cfg map[string]any, key string) []markdown.Heading {
	val, ok := cfg[key]
	if !ok {
		return nil
	}

	items, ok := val.([]any)
	if !ok {
		return nil
	}

	headings := make([]markdown.Heading, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		headings = append(headings, markdown.Heading{
			Prefix: getStringFromConfig(entry, "prefix"),
			Label:  getStringFromConfig(entry, "label"),
		})
	}
	return headings
}
