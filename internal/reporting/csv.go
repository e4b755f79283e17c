package reporting

import (
	"strings"
)

// RenderCSV renders the section sequence as CSV. Each section becomes a
// block: a title line, the header, then the rows; paragraph sections emit
// the paragraph as a single quoted cell.
func RenderCSV(sections []Section) string {
	var sb strings.Builder

	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(csvEscape(section.Title))
		sb.WriteString("\n")

		if section.Paragraph != "" {
			sb.WriteString(csvEscape(section.Paragraph))
			sb.WriteString("\n")
		}

		if section.IsTable() {
			sb.WriteString(joinCSV(section.Header))
			sb.WriteString("\n")
			for _, row := range section.Rows {
				sb.WriteString(joinCSV(row))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

func joinCSV(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = csvEscape(f)
	}
	return strings.Join(escaped, ",")
}

// csvEscape quotes a field when it contains a comma, quote or newline.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}
