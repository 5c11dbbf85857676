package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/pipeline"
	"github.com/matzehuels/pgpdump/pkg/render"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listFailedStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var f dumpFlags

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the packets of OpenPGP data interactively",
		Long: `Dump an OpenPGP file and list its top-level packets in a terminal UI.
Select a packet to see its full text dump.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := errors.StdinPath
			if len(args) == 1 {
				input = args[0]
			}
			cfg, err := loadConfig(c.resolveConfigPath())
			if err != nil {
				return err
			}
			cfg.apply(cmd.Flags(), &f)
			return c.runBrowse(cmd.Context(), input, f.opts)
		},
	}
	addDumpFlags(cmd.Flags(), &f.opts)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts dump.Options) error {
	out, ok := c.Stdout.(*os.File)
	if !ok || !isTerminal(out) {
		return errors.New(errors.ErrCodeUnsupported, "browse needs a terminal, use dump instead")
	}
	if input == errors.StdinPath && isTerminal(os.Stdin) {
		return errors.New(errors.ErrCodeInvalidInput, "no input file given")
	}

	rows, err := c.collectRows(ctx, input, opts)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printInfo("No packets found")
		return nil
	}

	_, err = tea.NewProgram(newBrowseModel(input, rows), tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out)).Run()
	return err
}

// collectRows dumps input and summarizes each top-level node. When the walk
// fails part way, the packets read so far are still returned.
func (c *CLI) collectRows(ctx context.Context, input string, opts dump.Options) ([]packetRow, error) {
	in, err := pipeline.OpenInput(input, c.Stdin)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	opts.Logger = c.Logger
	var rows []packetRow
	collect := dump.BackendFunc(func(n *dump.Node) error {
		row, err := summarize(n)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})

	if err := dump.Dump(ctx, stream.New(in), opts, collect); err != nil {
		if len(rows) == 0 {
			return nil, err
		}
		c.Logger.Warn("dump ended early", "err", err)
	}
	return rows, nil
}

// =============================================================================
// Packet Rows
// =============================================================================

// packetRow is the list entry of one top-level node.
type packetRow struct {
	Offset string
	Tag    string
	Length string
	Title  string
	Failed bool
	Detail []string // text dump of the node
}

// summarize builds the list row for a top-level node.
func summarize(n *dump.Node) (packetRow, error) {
	var buf bytes.Buffer
	if err := render.NewText(&buf).Emit(n); err != nil {
		return packetRow{}, err
	}
	row := packetRow{
		Offset: "—",
		Tag:    "—",
		Length: "—",
		Detail: strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"),
	}

	if n.Marker != "" {
		row.Title = n.Marker
		return row, nil
	}

	for _, e := range n.Entries {
		sec, ok := e.Value.(dump.Section)
		if !ok {
			continue
		}
		switch {
		case e.Key == "header":
			headerColumns(&row, sec.Node)
		case row.Title == "" && sec.Node.Title != "":
			row.Title = sec.Node.Title
		}
	}
	n.Walk(func(sub *dump.Node) {
		for _, e := range sub.Entries {
			if e.Key == "error" {
				row.Failed = true
			}
		}
	})
	return row, nil
}

func headerColumns(row *packetRow, h *dump.Node) {
	for _, e := range h.Entries {
		switch v := e.Value.(type) {
		case dump.Int:
			switch e.Key {
			case "offset":
				row.Offset = fmt.Sprintf("%d", v)
			case "length":
				row.Length = fmt.Sprintf("%d", v)
			}
		case dump.Alg:
			if e.Key == "tag" {
				row.Tag = fmt.Sprintf("%d %s", v.ID, v.Table.Name(v.ID))
			}
		case dump.Bool:
			if bool(v) {
				row.Length = e.Key
			}
		}
	}
}

// =============================================================================
// BrowseModel - Interactive packet list
// =============================================================================

// browseModel is the bubbletea model listing packets, with a scrollable
// detail view of the selected one.
type browseModel struct {
	Name   string
	Rows   []packetRow
	Cursor int
	Offset int
	Height int

	// Detail view
	Open   bool
	Scroll int
}

func newBrowseModel(name string, rows []packetRow) browseModel {
	return browseModel{
		Name:   name,
		Rows:   rows,
		Height: 15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Open {
			return m.updateDetail(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Open = true
			m.Scroll = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := len(m.Rows[m.Cursor].Detail)
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "backspace", "left", "h":
		m.Open = false
	case "up", "k":
		if m.Scroll > 0 {
			m.Scroll--
		}
	case "down", "j":
		if m.Scroll < lines-m.Height {
			m.Scroll++
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.Open {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Offset, r.Tag, r.Length, r.Title})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Offset", "Tag", "Length", "Packet").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Rows[idx].Failed:
				return listFailedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m browseModel) detailView() string {
	r := m.Rows[m.Cursor]

	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "offset " + r.Offset
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  ← back  ctrl+c quit"))
	b.WriteString("\n\n")

	end := m.Scroll + m.Height
	if end > len(r.Detail) {
		end = len(r.Detail)
	}
	for _, line := range r.Detail[m.Scroll:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
