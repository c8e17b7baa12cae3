// package formatter renders catalog data (platform lists, statistics) as plain text, Markdown or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/gameretriever/internal/models"
)

// FormatPlatform renders one platform as "[X] 6. PC (Microsoft Windows) (PC)".
func FormatPlatform(p models.Platform) string {
	mark := " "
	if p.Active {
		mark = "X"
	}
	if p.ShortName == "" {
		return fmt.Sprintf("[%s] %d. %s", mark, p.ID, p.Name)
	}
	return fmt.Sprintf("[%s] %d. %s (%s)", mark, p.ID, p.Name, p.ShortName)
}

// PlatformsToText renders one line per platform.
func PlatformsToText(platforms []models.Platform) []byte {
	var buf bytes.Buffer
	for _, p := range platforms {
		buf.WriteString(FormatPlatform(p))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ShortNames joins the platforms' abbreviations, falling back to their names.
func ShortNames(platforms []models.Platform) string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.DisplayShortName())
	}
	return strings.Join(names, ", ")
}

// PlatformsToCSV converts platforms to CSV with columns: ID, Name, ShortName, Active
func PlatformsToCSV(platforms []models.Platform) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "ShortName", "Active"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range platforms {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.ShortName,
			strconv.FormatBool(p.Active),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// StatsToText renders the catalog summary shown after a games refresh.
func StatsToText(stats *models.PlatformStats) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Changelog contains: %d platforms, %d games, %d game-platform relations\n",
		stats.ActivePlatformCount, stats.GameCount, stats.GamePlatformCount)

	if len(stats.Platforms) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("Details:\n")
	for _, p := range stats.Platforms {
		fmt.Fprintf(&buf, "- %s: %d games\n", p.Name, p.GameCount)
	}
	return buf.Bytes()
}

// StatsToMarkdown renders the catalog summary as a Markdown table.
func StatsToMarkdown(stats *models.PlatformStats) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Catalog\n\n")
	fmt.Fprintf(&buf, "**Platforms**: %d\n", stats.ActivePlatformCount)
	fmt.Fprintf(&buf, "**Games**: %d\n", stats.GameCount)
	fmt.Fprintf(&buf, "**Game-platform relations**: %d\n\n", stats.GamePlatformCount)

	if len(stats.Platforms) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| ID | Platform | Games |\n")
	buf.WriteString("|---:|---|---:|\n")
	for _, p := range stats.Platforms {
		name := strings.ReplaceAll(p.Name, "|", `\|`)
		fmt.Fprintf(&buf, "| %d | %s | %d |\n", p.ID, name, p.GameCount)
	}
	return buf.Bytes()
}
