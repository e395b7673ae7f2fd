package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"github.com/matzehuels/canister/pkg/integrations/canister"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconNone    = "—"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value. Empty values are skipped.
func printKeyValue(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

func printLink(w io.Writer, key string, value *string) {
	if value == nil || *value == "" {
		return
	}
	printKeyValue(w, key, StyleLink.Render(*value))
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// =============================================================================
// Records
// =============================================================================

// printPackage prints the details of one package.
func printPackage(w io.Writer, p canister.Package) {
	fmt.Fprintln(w, StyleTitle.Render(p.Name)+" "+StyleDim.Render(p.Identifier))
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintln(w)

	printKeyValue(w, "Version", p.Version)
	printKeyValue(w, "Author", p.Author)
	if p.Maintainer != p.Author {
		printKeyValue(w, "Maintainer", p.Maintainer)
	}
	printKeyValue(w, "Section", p.Section)
	printKeyValue(w, "Architecture", p.Architecture)
	printKeyValue(w, "Price", formatPrice(p))
	printKeyValue(w, "Size", formatBytes(p.Size))
	printKeyValue(w, "Installed", formatBytes(p.InstalledSize*1024))
	if len(p.Tags) > 0 {
		printKeyValue(w, "Tags", strings.Join(p.Tags, ", "))
	}
	printKeyValue(w, "Repository", repositoryLabel(p.Repository))
	printKeyValue(w, "Repository URL", p.RepositoryURL())
	printLink(w, "Depiction", p.Depiction)
	printKeyValue(w, "SHA256", p.SHA256)
}

// printRepository prints the details of one repository.
func printRepository(w io.Writer, r canister.Repository) {
	fmt.Fprintln(w, StyleTitle.Render(orNone(r.Name))+" "+StyleDim.Render(r.Slug))
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	fmt.Fprintln(w)

	printKeyValue(w, "URL", r.URL())
	printKeyValue(w, "Tier", strconv.Itoa(r.Tier))
	printKeyValue(w, "Packages", strconv.Itoa(r.PackageCount))
	printKeyValue(w, "Version", r.Version)
	if len(r.Sections) > 0 {
		printKeyValue(w, "Sections", strings.Join(r.Sections, ", "))
	}
	if aliases, ok := r.AliasList(); ok {
		printKeyValue(w, "Aliases", aliases)
	}
	printKeyValue(w, "Bootstrap", yesNo(r.IsBootstrap))
	printLink(w, "Payments", r.PaymentGateway)
	printLink(w, "Sileo", r.SileoEndpoint)
	printKeyValue(w, "Origin", r.Origin.ID)
}

// printStatus prints a safety verdict.
func printStatus(w io.Writer, s canister.RepositoryStatus) {
	switch s.Status {
	case "Safe":
		printSuccess(w, "%s is %s", s.URL, StyleSuccess.Render(s.Status))
	case "Unsafe":
		printError(w, "%s is %s", s.URL, s.Status)
	default:
		printWarning(w, "%s: %s", s.URL, s.Status)
	}
}

// packageTable renders packages as a table. A non-negative cursor marks
// the row at that index as selected.
func packageTable(pkgs []canister.Package, cursor int) string {
	rows := make([][]string, 0, len(pkgs))
	for i, p := range pkgs {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		rows = append(rows, []string{mark, p.Identifier, p.Name, orNone(p.Version), p.Author, repositoryLabel(p.Repository)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Identifier", "Name", "Version", "Author", "Repository").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// Formatting
// =============================================================================

func repositoryLabel(r canister.PackageRepository) string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Slug != "":
		return r.Slug
	}
	return iconNone
}

func formatPrice(p canister.Package) string {
	if p.IsFree() {
		return "Free"
	}
	return p.Price
}

// formatBytes renders a byte count with a binary unit. Zero is "".
func formatBytes(n int64) string {
	if n <= 0 {
		return ""
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func orNone(s string) string {
	if s == "" {
		return iconNone
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
