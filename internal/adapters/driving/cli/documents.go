package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Inspect stored documents and their chunks",
	Long:  `List and view documents persisted with chunka chunk --save.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list [source-id]",
	Short: "List stored documents for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a stored document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

// showContent prints full chunk content instead of a preview.
var showContent bool

func init() {
	documentsShowCmd.Flags().BoolVar(&showContent, "content", false, "Print full chunk content")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	docs, err := chunkStore.ListDocuments(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for source: %s\n", sourceID)
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Documents for source %s", sourceID)))
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].URI != "" {
			cmd.Printf("    URI: %s\n", docs[i].URI)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, err := chunkStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	chunks, err := chunkStore.GetChunks(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Document %s", doc.ID)))
	cmd.Println()
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Source:   %s\n", doc.SourceID)
	cmd.Printf("  URI:      %s\n", doc.URI)
	cmd.Printf("  Chunks:   %d\n", len(chunks))
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range doc.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	for i := range chunks {
		chunk := &chunks[i]
		cmd.Println()
		cmd.Println(mutedStyle.Render(fmt.Sprintf("--- chunk %d/%d (%s) ---",
			chunk.Index+1, chunk.TotalChunks, chunk.ID)))
		if showContent {
			cmd.Println(chunk.Content)
		} else {
			cmd.Println(preview(chunk.Content, 120))
		}
	}

	return nil
}

// preview returns the first n runes of s with an ellipsis when truncated.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
