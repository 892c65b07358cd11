package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driving"
	"github.com/custodia-labs/chunka-cli/internal/core/services"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [path]",
	Short: "Load documents from a path and split them into chunks",
	Long: `Load documents from a file or directory and split them into chunks.

The loader is selected with --loader (directory, csv, jsonfile) and the
splitter with --splitter (recursive, markdown, token). Splitter settings
not given as flags fall back to values in the config file.

Examples:
  chunka chunk ./docs --glob "*.md" --splitter markdown
  chunka chunk data.csv --loader csv --content-columns title,body
  chunka chunk posts.jsonl --loader jsonfile --content-field text --save`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

// Flags for the chunk command.
var (
	chunkLoaderType     string
	chunkSourceID       string
	chunkSplitterName   string
	chunkSize           int
	chunkOverlap        int
	chunkMaxTokens      int
	chunkOverlapTokens  int
	chunkEncoding       string
	chunkGlob           string
	chunkDelimiter      string
	chunkContentColumns []string
	chunkContentField   string
	chunkIDField        string
	chunkWorkers        int
	chunkKeepGoing      bool
	chunkSave           bool
	chunkShow           bool
)

func init() {
	chunkCmd.Flags().StringVarP(&chunkLoaderType, "loader", "l", "directory", "Loader type (directory, csv, jsonfile)")
	chunkCmd.Flags().StringVar(&chunkSourceID, "source-id", "", "Source identifier (default: path base name)")
	chunkCmd.Flags().StringVarP(&chunkSplitterName, "splitter", "s", "", "Splitter name (recursive, markdown, token)")
	chunkCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Maximum chunk size in characters")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "Overlap between neighbouring chunks in characters")
	chunkCmd.Flags().IntVar(&chunkMaxTokens, "max-tokens", 0, "Maximum chunk size in tokens (token splitter)")
	chunkCmd.Flags().IntVar(&chunkOverlapTokens, "overlap-tokens", -1, "Token overlap between chunks (token splitter)")
	chunkCmd.Flags().StringVar(&chunkEncoding, "encoding", "", "Tokeniser encoding name (token splitter)")
	chunkCmd.Flags().StringVar(&chunkGlob, "glob", "", "Glob pattern for the directory loader")
	chunkCmd.Flags().StringVar(&chunkDelimiter, "delimiter", "", "Field delimiter for the csv loader")
	chunkCmd.Flags().StringSliceVar(&chunkContentColumns, "content-columns", nil, "Columns included in content (csv loader)")
	chunkCmd.Flags().StringVar(&chunkContentField, "content-field", "", "Field used as content (jsonfile loader)")
	chunkCmd.Flags().StringVar(&chunkIDField, "id-field", "", "Field used as document ID (jsonfile loader)")
	chunkCmd.Flags().IntVar(&chunkWorkers, "workers", 0, "Number of documents to chunk in parallel")
	chunkCmd.Flags().BoolVar(&chunkKeepGoing, "keep-going", false, "Continue past documents that fail to split")
	chunkCmd.Flags().BoolVar(&chunkSave, "save", false, "Persist documents and chunks to the store")
	chunkCmd.Flags().BoolVar(&chunkShow, "show", false, "Print the content of every chunk")

	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if loaderFactory == nil || splitterRegistry == nil {
		return errors.New("chunking services not configured")
	}

	path := args[0]
	ctx := context.Background()

	loader, err := loaderFactory.Create(buildSource(path))
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer loader.Close()

	splitterName, splitterCfg := resolveSplitterConfig()
	splitter, err := splitterRegistry.Build(splitterName, splitterCfg)
	if err != nil {
		return fmt.Errorf("failed to create splitter: %w", err)
	}

	var pipelineOpts []services.PipelineOption
	if workers := resolveWorkers(); workers > 0 {
		pipelineOpts = append(pipelineOpts, services.WithWorkers(workers))
	}
	pipeline := services.NewChunkPipeline(pipelineOpts...)

	var ingestOpts []services.IngestOption
	if chunkKeepGoing {
		ingestOpts = append(ingestOpts, services.WithCollectFailures())
	}

	store := chunkStore
	if !chunkSave {
		store = nil
	}
	if chunkSave && chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	service := services.NewIngestService(pipeline, store, ingestOpts...)

	result, err := service.Ingest(ctx, loader, splitter)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	printIngestResult(cmd, result, splitterName)
	return nil
}

// buildSource assembles a source definition from the chunk flags.
func buildSource(path string) domain.Source {
	sourceID := chunkSourceID
	if sourceID == "" {
		sourceID = filepath.Base(path)
	}

	config := map[string]any{}
	if chunkGlob != "" {
		config["glob"] = chunkGlob
	}
	if chunkDelimiter != "" {
		config["delimiter"] = chunkDelimiter
	}
	if len(chunkContentColumns) > 0 {
		config["content_columns"] = chunkContentColumns
	}
	if chunkContentField != "" {
		config["content_field"] = chunkContentField
	}
	if chunkIDField != "" {
		config["id_field"] = chunkIDField
	}

	return domain.Source{
		ID:     sourceID,
		Type:   chunkLoaderType,
		Name:   sourceID,
		Path:   path,
		Config: config,
	}
}

// resolveSplitterConfig merges flags with config file defaults.
// Flags win; unset settings fall through to the splitter's own defaults.
func resolveSplitterConfig() (string, map[string]any) {
	name := chunkSplitterName
	if name == "" && configStore != nil {
		name = configStore.GetString("splitter.default")
	}
	if name == "" {
		name = "recursive"
	}

	cfg := map[string]any{}

	size := chunkSize
	if size == 0 && configStore != nil {
		size = configStore.GetInt("splitter.chunk_size")
	}
	if size > 0 {
		cfg["chunk_size"] = size
	}

	overlap := chunkOverlap
	if overlap < 0 && configStore != nil {
		if v, ok := configStore.Get("splitter.overlap"); ok {
			if n, isInt := v.(int64); isInt {
				overlap = int(n)
			}
		}
	}
	if overlap >= 0 {
		cfg["overlap"] = overlap
	}

	if chunkMaxTokens > 0 {
		cfg["max_tokens"] = chunkMaxTokens
	}
	if chunkOverlapTokens >= 0 {
		cfg["overlap_tokens"] = chunkOverlapTokens
	}
	if chunkEncoding != "" {
		cfg["encoding"] = chunkEncoding
	}

	return name, cfg
}

// resolveWorkers picks the worker count from the flag or config file.
func resolveWorkers() int {
	if chunkWorkers > 0 {
		return chunkWorkers
	}
	if configStore != nil {
		return configStore.GetInt("pipeline.workers")
	}
	return 0
}

// printIngestResult renders the chunking summary.
func printIngestResult(cmd *cobra.Command, result *driving.IngestResult, splitterName string) {
	cmd.Println(headingStyle.Render(fmt.Sprintf("Chunked source %s", result.SourceID)))
	cmd.Println()
	cmd.Printf("  Splitter:  %s\n", splitterName)
	cmd.Printf("  Documents: %d\n", len(result.Documents))
	cmd.Printf("  Chunks:    %d\n", len(result.Chunks))

	if len(result.Failed) > 0 {
		cmd.Println()
		cmd.Println(warningStyle.Render(fmt.Sprintf("  %d document(s) failed:", len(result.Failed))))
		for _, failure := range result.Failed {
			cmd.Printf("    document %d (%s): %v\n", failure.Index, failure.DocumentID, failure.Err)
		}
	}

	if chunkShow {
		for i := range result.Chunks {
			chunk := &result.Chunks[i]
			cmd.Println()
			cmd.Println(mutedStyle.Render(fmt.Sprintf("--- chunk %d/%d (%s) ---",
				chunk.Index+1, chunk.TotalChunks, chunk.ID)))
			cmd.Println(strings.TrimRight(chunk.Content, "\n"))
		}
	}

	if chunkSave {
		cmd.Println()
		cmd.Println(successStyle.Render("  Saved to store."))
	}
}
