// Package display renders tool catalogs, favorites and tool results for the
// terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/panuhen/spotify-mcp/internal/favorites"
	"github.com/panuhen/spotify-mcp/internal/result"
	"github.com/panuhen/spotify-mcp/internal/tools"
)

const maxDescription = 72

var styles = NewPalette("#1DB954", "#04B575", "#FF5F5F", "#626262")

// Palette holds the named styles used by every renderer.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

func NewPalette(title, ok, err, muted string) *Palette {
	return &Palette{
		title: NewBold(title),
		ok:    NewBold(ok),
		err:   NewBold(err),
		muted: NewStyle(muted),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

// Tools writes one line per tool: its name padded to a column, then the
// first sentence of its description.
func Tools(w io.Writer, catalog []tools.Tool) error {
	width := 0
	for _, t := range catalog {
		width = max(width, len(t.Name))
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%d tools", len(catalog))))
	b.WriteString("\n")
	for _, t := range catalog {
		name := styles.ok.Render(fmt.Sprintf("%-*s", width, t.Name))
		b.WriteString(fmt.Sprintf("  %s  %s\n", name, styles.muted.Render(Truncate(summary(t.Description), maxDescription))))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Favorites writes a numbered favorites listing.
func Favorites(w io.Writer, list []favorites.Favorite) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, styles.muted.Render("No favorites saved yet"))
		return err
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%d favorites", len(list))))
	b.WriteString("\n")
	for i, fav := range list {
		b.WriteString(fmt.Sprintf("%3d. %s\n", i+1, Favorite(fav)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Favorite formats a single favorite as "Name by Artists (Album)" followed
// by its URI.
func Favorite(fav favorites.Favorite) string {
	line := styles.ok.Render(fav.Name)
	if artists := Artists(fav.Artists); artists != "" {
		line += " by " + artists
	}
	if fav.Album != "" {
		line += " (" + fav.Album + ")"
	}
	return line + "  " + styles.muted.Render(fav.URI)
}

// Result writes a tool result. Failures get a styled headline above the
// JSON payload; other results are the JSON alone.
func Result(w io.Writer, r result.Result) error {
	if f, ok := r.(result.Failure); ok {
		if _, err := fmt.Fprintln(w, styles.err.Render("✗ "+f.Error)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, tools.Encode(r))
	return err
}

// Artists joins artist names with commas.
func Artists(names []string) string {
	return strings.Join(names, ", ")
}

// Truncate shortens s to maxLen runes, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func summary(description string) string {
	if i := strings.Index(description, ". "); i >= 0 {
		return description[:i+1]
	}
	return description
}
