package cmd

import (
	"fmt"
	"os"
)

const bashCompletion = `# bash completion for labkey
_labkey() {
    local cur prev commands
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="init encrypt decrypt status diff keyring completion help"

    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "$commands" -- "$cur") )
        return
    fi

    case "$prev" in
        encrypt|diff)
            COMPREPLY=( $(compgen -f -X '!*.json' -- "$cur") )
            ;;
        decrypt)
            COMPREPLY=( $(compgen -f -X '!*_encrypted.json' -- "$cur") )
            ;;
        keyring)
            COMPREPLY=( $(compgen -W "save rm status" -- "$cur") )
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "$cur") )
            ;;
    esac
}
complete -F _labkey labkey
`

const zshCompletion = `#compdef labkey

_labkey() {
    local -a commands
    commands=(
        'init:initialize the state registry'
        'encrypt:encrypt a JSON configuration file'
        'decrypt:restore the plaintext file'
        'status:list tracked files'
        'diff:show changes since last encryption'
        'keyring:manage the stored password'
        'completion:print shell completion script'
        'help:show help'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "$words[2]" in
        encrypt|diff) _files -g '*.json' ;;
        decrypt) _files -g '*_encrypted.json' ;;
        keyring) _values 'subcommand' save rm status ;;
        completion) _values 'shell' bash zsh fish ;;
    esac
}

_labkey "$@"
`

const fishCompletion = `# fish completion for labkey
complete -c labkey -f
complete -c labkey -n '__fish_use_subcommand' -a init -d 'initialize the state registry'
complete -c labkey -n '__fish_use_subcommand' -a encrypt -d 'encrypt a JSON configuration file'
complete -c labkey -n '__fish_use_subcommand' -a decrypt -d 'restore the plaintext file'
complete -c labkey -n '__fish_use_subcommand' -a status -d 'list tracked files'
complete -c labkey -n '__fish_use_subcommand' -a diff -d 'show changes since last encryption'
complete -c labkey -n '__fish_use_subcommand' -a keyring -d 'manage the stored password'
complete -c labkey -n '__fish_use_subcommand' -a completion -d 'print shell completion script'
complete -c labkey -n '__fish_seen_subcommand_from encrypt diff' -F -a '(ls *.json 2>/dev/null)'
complete -c labkey -n '__fish_seen_subcommand_from decrypt' -F -a '(ls *_encrypted.json 2>/dev/null)'
complete -c labkey -n '__fish_seen_subcommand_from keyring' -a 'save rm status'
complete -c labkey -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`

// Completion prints a completion script for the requested shell
func Completion(shell string) error {
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletion)
	case "fish":
		fmt.Fprint(os.Stdout, fishCompletion)
	default:
		return fmt.Errorf("unsupported shell %q (expected bash, zsh or fish)", shell)
	}
	return nil
}
