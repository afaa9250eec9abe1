// labkey encrypts the string values of JSON configuration files with a
// password, so secrets can live next to the code as reviewable ciphertext.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/live-labs/labkey/cmd"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "init":
		fs := flag.NewFlagSet("init", flag.ExitOnError)
		fs.Usage = func() { printCommandHelp("init") }
		fs.Parse(args)
		err = cmd.Init(ctx)

	case "encrypt":
		fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
		fs.Usage = func() { printCommandHelp("encrypt") }
		fs.Parse(args)
		if fs.NArg() < 1 {
			printCommandHelp("encrypt")
			os.Exit(1)
		}
		err = cmd.Encrypt(ctx, fs.Arg(0), fs.Arg(1))

	case "decrypt":
		fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
		fs.Usage = func() { printCommandHelp("decrypt") }
		fs.Parse(args)
		if fs.NArg() < 1 {
			printCommandHelp("decrypt")
			os.Exit(1)
		}
		err = cmd.Decrypt(ctx, fs.Arg(0), fs.Arg(1))

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		fs.Usage = func() { printCommandHelp("status") }
		fs.Parse(args)
		err = cmd.Status(ctx)

	case "diff":
		fs := flag.NewFlagSet("diff", flag.ExitOnError)
		fs.Usage = func() { printCommandHelp("diff") }
		fs.Parse(args)
		if fs.NArg() < 1 {
			printCommandHelp("diff")
			os.Exit(1)
		}
		err = cmd.Diff(ctx, fs.Arg(0), fs.Arg(1))

	case "keyring":
		if len(args) < 1 {
			printCommandHelp("keyring")
			os.Exit(1)
		}
		switch args[0] {
		case "save":
			var passwordArg string
			if len(args) > 1 {
				passwordArg = args[1]
			}
			err = cmd.KeyringSave(ctx, passwordArg)
		case "rm":
			err = cmd.KeyringRemove(ctx)
		case "status":
			err = cmd.KeyringStatus(ctx)
		default:
			printCommandHelp("keyring")
			os.Exit(1)
		}

	case "completion":
		if len(args) < 1 {
			printCommandHelp("completion")
			os.Exit(1)
		}
		err = cmd.Completion(args[0])

	case "version", "--version", "-v":
		fmt.Printf("labkey %s\n", version)

	case "help", "--help", "-h":
		if len(args) > 0 {
			printCommandHelp(args[0])
		} else {
			printUsage()
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	cmd.HandleError(err)
}

func printUsage() {
	fmt.Println(`labkey - password-based encryption for JSON configuration files

Usage:
  labkey <command> [arguments]

Commands:
  init                         initialize the state registry (.labkey)
  encrypt <file> [password]    encrypt string values into <file>_encrypted
  decrypt <file> [password]    restore the plaintext file
  status                       list tracked files, no password needed
  diff <file> [password]       show plaintext changes since last encryption
  keyring save|rm|status       manage the password in the OS keyring
  completion bash|zsh|fish     print a shell completion script
  version                      print the version
  help [command]               show help

The password is taken from the command line, the LABKEY_PASSWORD
environment variable, the OS keyring, or an interactive prompt, in
that order.`)
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println(`Usage: labkey init

Creates the .labkey state registry in the current directory. The registry
tracks which files are encrypted and holds the vault ID used to scope the
OS keyring entry. It stores no secrets and is safe to commit.`)
	case "encrypt":
		fmt.Println(`Usage: labkey encrypt <file.json> [password]

Encrypts every string value of the JSON file and writes the result to a
sibling file (config.json -> config_encrypted.json). Keys, numbers,
booleans, nulls and the order of object members are preserved, so the
encrypted file stays diffable. The plaintext file is left untouched.`)
	case "decrypt":
		fmt.Println(`Usage: labkey decrypt <file> [password]

Restores the plaintext file from its encrypted sibling. Accepts either
the plaintext or the encrypted path. Fails without writing anything if
any value does not authenticate.`)
	case "status":
		fmt.Println(`Usage: labkey status

Lists every tracked file and whether its plaintext was modified since it
was last encrypted. Uses content hashes from the registry, so no
password is needed.`)
	case "diff":
		fmt.Println(`Usage: labkey diff <file.json> [password]

Decrypts the encrypted sibling and shows a unified diff against the
current plaintext file.`)
	case "keyring":
		fmt.Println(`Usage: labkey keyring <save|rm|status>

  save [password]   store the password in the OS keyring
  rm                remove the stored password
  status            report whether a password is stored

Entries are keyed by the registry's vault ID, so multiple projects can
store different passwords.`)
	case "completion":
		fmt.Println(`Usage: labkey completion <bash|zsh|fish>

Prints a completion script for the given shell. For bash:
  source <(labkey completion bash)`)
	default:
		fmt.Printf("No help available for %q\n\n", command)
		printUsage()
	}
}
