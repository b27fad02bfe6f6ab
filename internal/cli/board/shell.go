package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
	"golang.org/x/term"
)

// ShellCmd returns the interactive shell subcommand
func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Manage the board interactively",
		Long: `Start an interactive session. Commands are case-insensitive:
HELP, LIST, ADD, ADVANCE, SHOW, REMOVE, CLEAR (or CLEAN) and QUIT.
The board is saved after every change and again on QUIT or end of input.`,
		Args: exactArgs(0),
		RunE: RunShell,
	}
}

// RunShell runs the interactive loop on the command's input and output
func RunShell(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	sh := &shell{
		session: s,
		in:      bufio.NewScanner(cmd.InOrStdin()),
		w:       cmd.OutOrStdout(),
	}
	return sh.run()
}

type shell struct {
	*session
	in *bufio.Scanner
	w  io.Writer
}

type shellCommand struct {
	help string
	run  func(sh *shell, arg string) error
}

var errQuit = errors.New("quit")

var shellCommands map[string]shellCommand

func init() {
	shellCommands = map[string]shellCommand{
		"HELP":    {"Show this help", func(sh *shell, _ string) error { return sh.help() }},
		"LIST":    {"List tasks grouped by column", func(sh *shell, _ string) error { return sh.list() }},
		"ADD":     {"Add a task; asks for the name if not given", (*shell).addCommand},
		"ADVANCE": {"Move a task to the next column; asks for the id if not given", (*shell).advanceCommand},
		"SHOW":    {"Show a task and its history", (*shell).showCommand},
		"REMOVE":  {"Remove a task", (*shell).removeCommand},
		"CLEAR":   {"Remove every task in the last column", func(sh *shell, _ string) error { return sh.clear() }},
		"QUIT":    {"Save the board and leave", func(sh *shell, _ string) error { return errQuit }},
	}
}

var shellAliases = map[string]string{
	"CLEAN": "CLEAR",
	"EXIT":  "QUIT",
}

func (sh *shell) run() error {
	sh.println(styles.TitleStyle.Render("Welcome to Kanban!"))

	for {
		line, ok := sh.prompt("> ")
		if !ok {
			break
		}
		if line == "" {
			continue
		}

		word, arg, _ := strings.Cut(line, " ")
		name := strings.ToUpper(word)
		if alias, ok := shellAliases[name]; ok {
			name = alias
		}

		command, ok := shellCommands[name]
		if !ok {
			sh.printError(fmt.Sprintf("Cannot understand %q. Type HELP.", line))
			continue
		}

		err := command.run(sh, strings.TrimSpace(arg))
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sh.out().HandleError(err)
		}
	}

	if err := sh.in.Err(); err != nil {
		sh.out().HandleError(fmt.Errorf("failed to read input: %w", err))
	}
	if err := sh.svc.Save(sh.ctx); err != nil {
		return err
	}
	sh.println(styles.TitleStyle.Render("Goodbye."))
	return nil
}

// prompt writes label and reads one trimmed line; false at end of input
func (sh *shell) prompt(label string) (string, bool) {
	_, _ = lipgloss.Fprint(sh.w, styles.LabelStyle.Render(label))
	if !sh.in.Scan() {
		_, _ = fmt.Fprintln(sh.w)
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

// argOrPrompt returns arg, or asks for it when empty
func (sh *shell) argOrPrompt(arg, label string) string {
	if arg != "" {
		return arg
	}
	value, _ := sh.prompt("  " + label + ": ")
	return value
}

func (sh *shell) addCommand(arg string) error {
	return sh.add(sh.argOrPrompt(arg, "Name"))
}

func (sh *shell) advanceCommand(arg string) error {
	return sh.advance(sh.argOrPrompt(arg, "Task ID"))
}

func (sh *shell) showCommand(arg string) error {
	return sh.show(sh.argOrPrompt(arg, "Task ID"))
}

func (sh *shell) removeCommand(arg string) error {
	return sh.remove(sh.argOrPrompt(arg, "Task ID"))
}

func (sh *shell) help() error {
	rendered, err := renderMarkdown(shellHelp(), sh.w)
	if err != nil {
		return err
	}
	sh.println(strings.TrimRight(rendered, "\n"))
	return nil
}

func (sh *shell) println(text string) {
	_ = sh.out().Println(text)
}

func (sh *shell) printError(message string) {
	_ = sh.out().Error("UNKNOWN_COMMAND", message)
}

// shellHelp lists the shell commands as markdown
func shellHelp() string {
	names := make([]string, 0, len(shellCommands))
	for name := range shellCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Commands\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s` %s\n", name, shellCommands[name].help)
	}
	b.WriteString("\n`CLEAN` is an alias of `CLEAR`. Commands are case-insensitive.\n")
	return b.String()
}

// renderMarkdown renders markdown with glamour, using the plain style when
// the output is not a terminal
func renderMarkdown(markdown string, w io.Writer) (string, error) {
	style := glamour.WithStandardStyle(glamourstyles.NoTTYStyle)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return markdown, err
	}
	return renderer.Render(markdown)
}
