package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/adapted/internal/docs"
	"github.com/abhisek/adapted/internal/ui/theme"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage reference documents used for hints",
}

var docsAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a text or PDF document to the hint library",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		filePath, _ := cmd.Flags().GetString("file")

		var content, source string
		switch {
		case pdfPath != "":
			text, err := docs.ExtractFile(pdfPath)
			if err != nil {
				return err
			}
			content, source = text, "pdf"
			if title == "" {
				title = filepath.Base(pdfPath)
			}
		case filePath != "":
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			content, source = string(data), "text"
			if title == "" {
				title = filepath.Base(filePath)
			}
		case len(args) == 1:
			content, source = args[0], "text"
		default:
			return errors.New("provide --pdf, --file or the document text")
		}
		if title == "" {
			return errors.New("--title is required for inline text")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.Assistant.AddDocument(cmd.Context(), title, content, source)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(doc)
		}
		fmt.Println(theme.Correct.Render("Added "+doc.Title), theme.Hint.Render(doc.ID))
		return nil
	},
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.Documents.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No documents stored.")
			return nil
		}
		for _, d := range list {
			fmt.Println(theme.Label.Render(d.Source) + theme.Body.Render(d.Title) + "  " + theme.Hint.Render(d.ID))
		}
		return nil
	},
}

func init() {
	docsAddCmd.Flags().String("title", "", "Document title (defaults to the file name)")
	docsAddCmd.Flags().String("pdf", "", "Path to a PDF to extract text from")
	docsAddCmd.Flags().String("file", "", "Path to a plain text file")
	docsListCmd.Flags().IntP("limit", "n", 20, "Number of documents to show")

	docsCmd.AddCommand(docsAddCmd)
	docsCmd.AddCommand(docsListCmd)
}
