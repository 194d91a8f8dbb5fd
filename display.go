package jandas

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DisplayConfig controls how DataFrames are formatted when printed.
type DisplayConfig struct {
	// MaxRows is the maximum number of rows to display.
	// If the DataFrame has more rows, it shows head and tail rows with "…" in between.
	// Default: 10 (5 head + 5 tail)
	MaxRows int

	// MaxCols is the maximum number of columns to display.
	// If the DataFrame has more columns, middle columns are replaced with "…".
	// Default: 10
	MaxCols int

	// MaxColWidth is the maximum width for column content.
	// Values longer than this are truncated with "...".
	// Default: 25
	MaxColWidth int

	// MinColWidth is the minimum column width for alignment.
	// Default: 4
	MinColWidth int

	// FloatPrecision is the number of decimal places for float values.
	// A negative value prints the shortest exact representation.
	// Default: 4
	FloatPrecision int

	// NullString is printed for missing values.
	// Default: "NA"
	NullString string

	// ShowDTypes controls whether to display data types under column names.
	// Default: true
	ShowDTypes bool

	// ShowShape controls whether to display the shape (rows × columns) header.
	// Default: true
	ShowShape bool

	// ShowRowLabels controls whether row labels are printed as a leading column.
	// Default: true
	ShowRowLabels bool

	// TableStyle selects the border and separator characters.
	// Options: "rounded", "sharp", "ascii", "minimal"
	// Default: "rounded"
	TableStyle string
}

// Table style characters
type tableChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topT, bottomT, leftT, rightT, cross        string
}

var tableStyles = map[string]tableChars{
	"rounded": {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴", leftT: "├", rightT: "┤", cross: "┼",
	},
	"sharp": {
		topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴", leftT: "├", rightT: "┤", cross: "┼",
	},
	"ascii": {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topT: "+", bottomT: "+", leftT: "+", rightT: "+", cross: "+",
	},
	"minimal": {
		topLeft: " ", topRight: " ", bottomLeft: " ", bottomRight: " ",
		horizontal: "─", vertical: " ",
		topT: " ", bottomT: " ", leftT: " ", rightT: " ", cross: " ",
	},
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxCols:        10,
		MaxColWidth:    25,
		MinColWidth:    4,
		FloatPrecision: 4,
		NullString:     NullString,
		ShowDTypes:     true,
		ShowShape:      true,
		ShowRowLabels:  true,
		TableStyle:     "rounded",
	}
}

// Global display configuration with mutex for thread safety
var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

// SetMaxDisplayRows sets the maximum number of rows to display.
func SetMaxDisplayRows(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.MaxRows = n
}

// SetMaxDisplayCols sets the maximum number of columns to display.
func SetMaxDisplayCols(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.MaxCols = n
}

// SetFloatPrecision sets the decimal precision for float display.
func SetFloatPrecision(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.FloatPrecision = n
}

// SetTableStyle sets the table border style.
// Options: "rounded", "sharp", "ascii", "minimal"
func SetTableStyle(style string) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	if _, ok := tableStyles[style]; ok {
		globalDisplayConfig.TableStyle = style
	}
}

// formatDisplayValue formats a value for display with the given configuration.
func formatDisplayValue(val any, cfg DisplayConfig) string {
	var s string
	switch v := val.(type) {
	case nil:
		s = cfg.NullString
	case float64:
		if cfg.FloatPrecision < 0 {
			s = formatFloat(v)
		} else {
			s = strconv.FormatFloat(v, 'f', cfg.FloatPrecision, 64)
		}
	default:
		s = formatValue(v)
	}
	return truncate(s, cfg.MaxColWidth)
}

// truncate shortens s to width cells, ending in "...".
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// pad aligns s within width cells.
func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// visibleIndices picks which of n items to show: all of them, or the first and
// last halves of limit with -1 marking the elided middle. It also returns how
// many items were elided.
func visibleIndices(n, limit int) ([]int, int) {
	if limit <= 0 || n <= limit {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx, 0
	}
	head := limit / 2
	tail := limit - head
	idx := make([]int, 0, limit+1)
	for i := 0; i < head; i++ {
		idx = append(idx, i)
	}
	idx = append(idx, -1) // marker for "…"
	for i := n - tail; i < n; i++ {
		idx = append(idx, i)
	}
	return idx, n - limit
}

// displayColumn is one rendered column: header lines plus one string per row.
type displayColumn struct {
	name, dtype string
	cells       []string
	numeric     bool
	width       int
}

func (c *displayColumn) fit(cfg DisplayConfig) {
	c.width = max(lipgloss.Width(c.name), cfg.MinColWidth)
	if cfg.ShowDTypes {
		c.width = max(c.width, lipgloss.Width(c.dtype))
	}
	for _, s := range c.cells {
		c.width = max(c.width, lipgloss.Width(s))
	}
	if cfg.MaxColWidth > 0 {
		c.width = min(c.width, cfg.MaxColWidth)
	}
}

// StringWithConfig formats the DataFrame using the provided configuration.
func (df *DataFrame) StringWithConfig(cfg DisplayConfig) string {
	if df.Height() == 0 && len(df.columns) == 0 {
		return "DataFrame(empty)"
	}

	chars, ok := tableStyles[cfg.TableStyle]
	if !ok {
		chars = tableStyles["rounded"]
	}

	var sb strings.Builder

	// Shape header
	if cfg.ShowShape {
		fmt.Fprintf(&sb, "shape: (%d, %d)\n", df.Height(), len(df.columns))
	}

	rowIndices, hiddenRows := visibleIndices(df.Height(), cfg.MaxRows)
	colIndices, hiddenCols := visibleIndices(len(df.columns), cfg.MaxCols)

	var cols []*displayColumn
	if cfg.ShowRowLabels {
		labels := &displayColumn{}
		for _, r := range rowIndices {
			if r < 0 {
				labels.cells = append(labels.cells, "…")
			} else {
				labels.cells = append(labels.cells, truncate(df.rowLabels[r].String(), cfg.MaxColWidth))
			}
		}
		cols = append(cols, labels)
	}
	for _, c := range colIndices {
		if c < 0 {
			ellipsis := &displayColumn{name: "…", dtype: "---", numeric: true}
			for range rowIndices {
				ellipsis.cells = append(ellipsis.cells, "…")
			}
			cols = append(cols, ellipsis)
			continue
		}
		s := df.columns[c]
		col := &displayColumn{
			name:    truncate(s.Name(), cfg.MaxColWidth),
			dtype:   s.dtype.String(),
			numeric: s.dtype.IsNumeric(),
		}
		for _, r := range rowIndices {
			if r < 0 {
				col.cells = append(col.cells, "…")
			} else {
				col.cells = append(col.cells, formatDisplayValue(s.cells[r].value, cfg))
			}
		}
		cols = append(cols, col)
	}
	for _, c := range cols {
		c.fit(cfg)
	}

	border := func(left, mid, right string) {
		sb.WriteString(left)
		for i, c := range cols {
			if i > 0 {
				sb.WriteString(mid)
			}
			sb.WriteString(strings.Repeat(chars.horizontal, c.width+2))
		}
		sb.WriteString(right)
		sb.WriteString("\n")
	}
	line := func(cell func(c *displayColumn) (string, bool)) {
		sb.WriteString(chars.vertical)
		for _, c := range cols {
			text, right := cell(c)
			sb.WriteString(" ")
			sb.WriteString(pad(truncate(text, c.width), c.width, right))
			sb.WriteString(" ")
			sb.WriteString(chars.vertical)
		}
		sb.WriteString("\n")
	}

	border(chars.topLeft, chars.topT, chars.topRight)
	line(func(c *displayColumn) (string, bool) { return c.name, false })
	if cfg.ShowDTypes {
		line(func(c *displayColumn) (string, bool) { return c.dtype, false })
	}
	border(chars.leftT, chars.cross, chars.rightT)
	for i := range rowIndices {
		line(func(c *displayColumn) (string, bool) { return c.cells[i], c.numeric })
	}
	border(chars.bottomLeft, chars.bottomT, chars.bottomRight)

	if footer := elidedSummary(hiddenRows, hiddenCols); footer != "" {
		sb.WriteString(footer)
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// elidedSummary reports rows and columns left out of the rendering.
func elidedSummary(rows, cols int) string {
	var parts []string
	if rows > 0 {
		parts = append(parts, plural(rows, "more row"))
	}
	if cols > 0 {
		parts = append(parts, plural(cols, "more column"))
	}
	if len(parts) == 0 {
		return ""
	}
	return "… " + strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// SeriesStringWithConfig formats the Series using the provided configuration.
func SeriesStringWithConfig(s *Series, cfg DisplayConfig) string {
	if s.Len() == 0 {
		return fmt.Sprintf("Series: '%s' (%s)\nlength: 0\n[]", s.Name(), s.DType())
	}

	chars, ok := tableStyles[cfg.TableStyle]
	if !ok {
		chars = tableStyles["rounded"]
	}

	var sb strings.Builder

	// Header
	fmt.Fprintf(&sb, "Series: '%s' (%s)\n", s.Name(), s.DType())
	fmt.Fprintf(&sb, "length: %d\n", s.Len())

	rowIndices, hidden := visibleIndices(s.Len(), cfg.MaxRows)

	// Calculate column widths
	indexWidth := max(len(strconv.Itoa(s.Len()-1)), 3)
	valueWidth := cfg.MinColWidth
	for _, idx := range rowIndices {
		if idx >= 0 {
			valueWidth = max(valueWidth, lipgloss.Width(formatDisplayValue(s.Get(idx), cfg)))
		}
	}
	if cfg.MaxColWidth > 0 {
		valueWidth = min(valueWidth, cfg.MaxColWidth)
	}

	// Top border
	sb.WriteString(chars.topLeft)
	sb.WriteString(strings.Repeat(chars.horizontal, indexWidth+2))
	sb.WriteString(chars.topT)
	sb.WriteString(strings.Repeat(chars.horizontal, valueWidth+2))
	sb.WriteString(chars.topRight)
	sb.WriteString("\n")

	// Data rows
	for _, idx := range rowIndices {
		sb.WriteString(chars.vertical)
		if idx == -1 {
			fmt.Fprintf(&sb, " %s ", pad("…", indexWidth, true))
			sb.WriteString(chars.vertical)
			fmt.Fprintf(&sb, " %s ", pad("…", valueWidth, true))
		} else {
			fmt.Fprintf(&sb, " %*d ", indexWidth, idx)
			sb.WriteString(chars.vertical)
			valStr := truncate(formatDisplayValue(s.Get(idx), cfg), valueWidth)
			fmt.Fprintf(&sb, " %s ", pad(valStr, valueWidth, true))
		}
		sb.WriteString(chars.vertical)
		sb.WriteString("\n")
	}

	// Bottom border
	sb.WriteString(chars.bottomLeft)
	sb.WriteString(strings.Repeat(chars.horizontal, indexWidth+2))
	sb.WriteString(chars.bottomT)
	sb.WriteString(strings.Repeat(chars.horizontal, valueWidth+2))
	sb.WriteString(chars.bottomRight)

	if hidden > 0 {
		sb.WriteString("\n")
		sb.WriteString(elidedSummary(hidden, 0))
	}

	return sb.String()
}
