// Package editor collects entry descriptions through the user's editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// ResolveEditor determines which editor to use based on config, env vars, and fallback.
func ResolveEditor(configEditor string) string {
	if configEditor != "" {
		return configEditor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	if ed := os.Getenv("VISUAL"); ed != "" {
		return ed
	}
	return "vi"
}

var commentPattern = regexp.MustCompile(`(?s)<!--.*?-->\n?`)

// DescriptionTemplate is the initial buffer for a new entry titled title.
func DescriptionTemplate(title string) string {
	return fmt.Sprintf("<!-- Describe %q in Markdown. Comments are removed; an empty description aborts. -->\n", title)
}

// StripComments removes HTML comments and surrounding blank space.
func StripComments(s string) string {
	return strings.TrimSpace(commentPattern.ReplaceAllString(s, ""))
}

// Describe opens the editor on DescriptionTemplate(title) and returns the
// description the user wrote, without comments. It returns "" when the
// result is empty.
func Describe(editorCmd, title string) (string, error) {
	content, _, err := Edit(editorCmd, DescriptionTemplate(title))
	if err != nil {
		return "", err
	}
	return StripComments(content), nil
}

// Edit opens the given content in an editor and returns the edited content.
// If the user saves unchanged content or an empty file, it returns the original
// content and changed=false.
func Edit(editorCmd string, initialContent string) (content string, changed bool, err error) {
	tmp, err := os.CreateTemp("", "devjournal-*.md")
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(initialContent); err != nil {
		tmp.Close()
		return "", false, fmt.Errorf("writing temp file: %w", err)
	}
	tmp.Close()

	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return "", false, fmt.Errorf("empty editor command")
	}

	cmdArgs := append(parts[1:], tmpName)
	cmd := exec.Command(parts[0], cmdArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpName)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}

	result := string(data)
	if strings.TrimSpace(result) == "" {
		return "", false, nil
	}
	if strings.TrimSpace(result) == strings.TrimSpace(initialContent) {
		return initialContent, false, nil
	}
	return result, true, nil
}
