package shell

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/mullsim/mullsim/hero"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-threads")
	Args    []string // Possible argument values (for non-option arguments)
	// Files completes arguments with file names.
	Files bool
}

var commandMetadata = map[string]CommandMetadata{
	"hand":      {Options: []string{"-threads"}},
	"basic":     {Options: []string{"-threads"}},
	"demo":      {Options: []string{"-threads"}},
	"hero":      {Args: hero.Codes},
	"sim":       {Args: []string{"log", "nolog", "threads", "show", "single"}},
	"history":   {Options: []string{"-n"}},
	"turnstats": {Options: []string{"-max"}},
	"help":      {Args: []string{"hand", "play", "sim", "script"}},
	"save":      {Files: true},
	"load":      {Files: true},
	"script":    {Files: true},
}

var commandNames = []string{
	"hand", "basic", "demo", "deck", "add", "fill", "clear", "hero", "save",
	"load", "play", "state", "history", "sim", "turnstats", "heatmap",
	"histogram", "script", "help", "exit",
}

func fileCompletions(prefix string) []string {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return nil
	}
	return matches
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		metadata, exists := commandMetadata[cmdName]
		switch {
		case !exists:
		case strings.HasPrefix(prefix, "-"):
			completions = metadata.Options
		case metadata.Files:
			completions = fileCompletions(prefix)
		case len(metadata.Args) > 0:
			completions = metadata.Args
		default:
			completions = metadata.Options
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
