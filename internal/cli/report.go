package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/storage"
)

func underline(title string) string {
	return strings.Repeat("=", len(title))
}

func printReport(out io.Writer, report *entities.RunReport, verbose bool) {
	for _, file := range report.Files {
		switch file.Status {
		case entities.FileStatusConverted:
			fmt.Fprintf(out, "\nProcessing: %s\n", file.Name)
		case entities.FileStatusSkipped:
			fmt.Fprintf(out, "\nSkipping: %s\n", file.Name)
		case entities.FileStatusFailed:
			fmt.Fprintf(out, "\nError processing %s: %s\n", file.Name, file.Error)
		}

		for _, warning := range file.Warnings {
			fmt.Fprintf(out, "  Warning: %s\n", warning)
		}
		if verbose {
			for _, output := range file.Outputs {
				fmt.Fprintf(out, "  Created file: %s\n", output)
			}
		}
		if file.Status == entities.FileStatusConverted {
			fmt.Fprintf(out, "  %d conversations, %d messages", file.Conversations, file.Messages)
			if file.ConversationsSkipped > 0 {
				fmt.Fprintf(out, ", %d empty skipped", file.ConversationsSkipped)
			}
			fmt.Fprintln(out)
		}
	}

	fmt.Fprintln(out, "\n=== Summary ===")
	fmt.Fprintf(out, "Run:           %s\n", report.RunID)
	fmt.Fprintf(out, "Status:        %s\n", report.Status())
	fmt.Fprintf(out, "Files:         %d (%d failed)\n", len(report.Files), report.FilesFailed())
	fmt.Fprintf(out, "Conversations: %d\n", report.TotalConversations())
	fmt.Fprintf(out, "Messages:      %d\n", report.TotalMessages())
}

func printDryRun(out io.Writer, mem *storage.MemoryClient) {
	paths := mem.Paths()
	fmt.Fprintf(out, "\nWould write %d files:\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
}
