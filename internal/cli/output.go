package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/thenoetrevino/kanban/internal/cli/styles"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer // defaults to os.Stdout
	Err io.Writer // defaults to os.Stderr
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) err() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs a successful operation result.
// JSON mode wraps data under key; quiet mode prints only the id when data has one;
// otherwise the human message is printed.
func (f *OutputFormatter) Success(key string, data any, message string) error {
	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			key:       data,
		})
	}

	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			_, err := fmt.Fprintf(f.out(), "%d\n", idGetter.GetID())
			return err
		}
		return nil
	}

	return f.Println(message)
}

// Println writes human output, downsampling colors for the destination
func (f *OutputFormatter) Println(text string) error {
	_, err := lipgloss.Fprintln(f.out(), text)
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	if _, err := lipgloss.Fprintf(f.err(), "%s %s\n", styles.ErrorStyle.Render("Error:"), message); err != nil {
		return err
	}
	if suggestion != "" {
		_, err := lipgloss.Fprintf(f.err(), "%s\n", styles.SubtitleStyle.Render("Suggestion: "+suggestion))
		return err
	}
	return nil
}

// HandleError reports err and returns the exit code for it
func (f *OutputFormatter) HandleError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if fmtErr := f.ErrorWithSuggestion(ErrorCode(err), err.Error(), Suggestion(err)); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Warn writes a warning to stderr; suppressed in JSON and quiet modes
func (f *OutputFormatter) Warn(message string) {
	if f.JSON || f.Quiet {
		return
	}
	_, _ = lipgloss.Fprintf(f.err(), "%s %s\n", styles.WarningStyle.Render("Warning:"), message)
}
