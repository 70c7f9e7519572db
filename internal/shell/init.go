// Package shell writes the prompt hooks that feed capture bookkeeping.
package shell

import (
	"fmt"
	"io"
)

// Shells lists the shells WriteInit supports.
var Shells = []string{"bash", "zsh"}

// WriteInit writes the integration script for shell. The hook records
// activity on every prompt and prints a reminder when a capture is due.
func WriteInit(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		WriteBashInit(w)
	case "zsh":
		WriteZshInit(w)
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh)", shell)
	}
	return nil
}

// WriteBashInit writes the bash shell integration script to the writer.
func WriteBashInit(w io.Writer) {
	fmt.Fprint(w, `# devjournal shell integration
__devjournal_prompt_hook() {
  command devjournal capture touch 2>/dev/null
  if [[ "$(command devjournal capture due 2>/dev/null)" == "true" ]]; then
    echo "devjournal: time to capture progress (devjournal add --auto-capture ...)" >&2
  fi
}

if [[ -z "$PROMPT_COMMAND" ]]; then
  PROMPT_COMMAND="__devjournal_prompt_hook"
else
  PROMPT_COMMAND="__devjournal_prompt_hook;${PROMPT_COMMAND}"
fi

eval "$(command devjournal completion bash 2>/dev/null)"
`)
}

// WriteZshInit writes the zsh shell integration script to the writer.
func WriteZshInit(w io.Writer) {
	fmt.Fprint(w, `# devjournal shell integration
__devjournal_prompt_hook() {
  command devjournal capture touch 2>/dev/null
  if [[ "$(command devjournal capture due 2>/dev/null)" == "true" ]]; then
    echo "devjournal: time to capture progress (devjournal add --auto-capture ...)" >&2
  fi
}

autoload -Uz add-zsh-hook
add-zsh-hook precmd __devjournal_prompt_hook

eval "$(command devjournal completion zsh 2>/dev/null)"
`)
}
