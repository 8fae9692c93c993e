package hookenv

import (
	"fmt"
)

// SupportedShells lists the shell identifiers Activate accepts.
var SupportedShells = []string{"bash", "zsh", "fish", "powershell"}

// Activate returns the shell integration snippet for shellType, which
// prepends shimsDir to PATH and installs a prompt hook that re-invokes
// `<mvxPath> hook-env` on every prompt, applying its stdout.
func Activate(shellType, mvxPath, shimsDir string) (string, error) {
	switch shellType {
	case "bash", "zsh":
		return fmt.Sprintf(bashZshHook, shimsDir, mvxPath), nil
	case "fish":
		return fmt.Sprintf(fishHook, shimsDir, mvxPath), nil
	case "powershell":
		return fmt.Sprintf(powershellHook, shimsDir, mvxPath), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shellType)
	}
}

const bashZshHook = `export PATH=%[1]q:"$PATH"
mvx_hook_env() {
  local output
  output="$(%[2]q hook-env --shell bash 2>/dev/null)"
  if [ -n "$output" ]; then
    eval "$output"
  fi
}
mvx_deactivate() {
  unset -f mvx_hook_env mvx_deactivate
  unset __MVX_DIFF __MVX_WATCH __MVX_SESSION
}
if [ -n "$BASH_VERSION" ]; then
  PROMPT_COMMAND="mvx_hook_env${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
elif [ -n "$ZSH_VERSION" ]; then
  autoload -Uz add-zsh-hook
  add-zsh-hook precmd mvx_hook_env
fi
`

const fishHook = `set -gx PATH %[1]q $PATH
function mvx_hook_env --on-event fish_prompt
  %[2]q hook-env --shell fish 2>/dev/null | source
end
function mvx_deactivate
  functions -e mvx_hook_env mvx_deactivate
  set -e __MVX_DIFF __MVX_WATCH __MVX_SESSION
end
`

const powershellHook = `$env:PATH = "%[1]s;" + $env:PATH
function mvx-hook-env {
  $output = & %[2]q hook-env --shell powershell 2>$null
  if ($output) { Invoke-Expression ($output -join "` + "`" + `n") }
}
function mvx-deactivate {
  Remove-Item Function:\mvx-hook-env, Function:\mvx-deactivate -ErrorAction SilentlyContinue
  Remove-Item Env:__MVX_DIFF, Env:__MVX_WATCH, Env:__MVX_SESSION -ErrorAction SilentlyContinue
}
$global:prompt_orig = $function:prompt
function prompt { mvx-hook-env; & $global:prompt_orig }
`
