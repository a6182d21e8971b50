package labeling

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/trace"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	fileStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	lineNumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(6).Align(lipgloss.Right)
	primaryStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// marker annotates a span of a source line.
type marker struct {
	location trace.Location
	message  string
	primary  bool
}

// Renderer prints an issue trace over the analysed source files.
type Renderer struct {
	Before int // context lines shown before the first marker of a file
	After  int // context lines shown after the last marker of a file
}

// Render writes issue with its trace to w. Relative source files are resolved inside
// analysisDir, absolute ones (dependencies, stubs) are read in place.
// A file that cannot be read fails the whole rendering.
func (r *Renderer) Render(w io.Writer, analysisDir string, issue results.ProcessedIssue) error {
	markers := []marker{{location: issue.Location, message: "forward and backward traces meet here", primary: true}}
	for i, entry := range issue.Trace {
		markers = append(markers, marker{
			location: entry.Location,
			message:  fmt.Sprintf("#%d: %s", i+1, stepMessage(entry.Callable)),
		})
	}

	var order []string
	byFile := map[string][]marker{}
	for _, m := range markers {
		if _, ok := byFile[m.location.Filename]; !ok {
			order = append(order, m.location.Filename)
		}
		byFile[m.location.Filename] = append(byFile[m.location.Filename], m)
	}

	sources := map[string][]string{}
	for _, filename := range order {
		lines, err := readSource(analysisDir, filename)
		if err != nil {
			return err
		}
		sources[filename] = lines
	}

	fmt.Fprintln(w, titleStyle.Render("warning: found potential class pollution"))
	for _, filename := range order {
		r.renderFile(w, filename, sources[filename], byFile[filename])
	}
	return nil
}

func (r *Renderer) renderFile(w io.Writer, filename string, lines []string, markers []marker) {
	first, last := len(lines), 1
	byLine := map[int][]marker{}
	for _, m := range markers {
		line := m.location.Line
		if line < 1 || line > len(lines) {
			continue
		}
		byLine[line] = append(byLine[line], m)
		first = min(first, line)
		last = max(last, line)
	}
	if len(byLine) == 0 {
		return
	}

	from := max(1, first-r.Before)
	to := min(len(lines), last+r.After)

	fmt.Fprintf(w, "%s %s\n", fileStyle.Render("-->"), fileStyle.Render(filename))
	for n := from; n <= to; n++ {
		fmt.Fprintf(w, "%s | %s\n", lineNumStyle.Render(fmt.Sprint(n)), contextStyle.Render(lines[n-1]))
		for _, m := range byLine[n] {
			fmt.Fprintf(w, "%s | %s\n", lineNumStyle.Render(""), underline(lines[n-1], m))
		}
	}
}

func underline(line string, m marker) string {
	start := min(max(m.location.Start, 0), len(line))
	end := min(max(m.location.End, start+1), len(line)+1)
	pad := strings.Repeat(" ", start)

	if m.primary {
		return pad + primaryStyle.Render(strings.Repeat("^", end-start)+" "+m.message)
	}
	return pad + secondaryStyle.Render(strings.Repeat("-", end-start)+" "+m.message)
}

func stepMessage(callable string) string {
	switch callable {
	case "getattr":
		return "the return value of getattr becomes tainted"
	case "setattr":
		return "the first argument of setattr is tainted"
	default:
		return "taint propagates"
	}
}

func readSource(analysisDir, filename string) ([]string, error) {
	path := filename
	if !filepath.IsAbs(filename) {
		resolved, err := files.EnsureWithinRoot(analysisDir, filepath.Join(analysisDir, filename))
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %q: %w", filename, err)
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n"), nil
}
