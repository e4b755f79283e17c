package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the section sequence as a Markdown string.
// generatedAt is stamped into the header; the sections themselves are
// clock-free.
func RenderMarkdown(sections []Section, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Session Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339)))

	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("## %s\n\n", section.Title))

		if section.Paragraph != "" {
			sb.WriteString(section.Paragraph)
			sb.WriteString("\n\n")
		}

		if section.IsTable() {
			sb.WriteString("| ")
			sb.WriteString(strings.Join(section.Header, " | "))
			sb.WriteString(" |\n|")
			for range section.Header {
				sb.WriteString("---|")
			}
			sb.WriteString("\n")

			for _, row := range section.Rows {
				sb.WriteString("| ")
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString(" |\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
