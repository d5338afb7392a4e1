package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/networth/config"
	"github.com/pkg/errors"
)

// EnvVerbose tells an extension that -v was set.
const EnvVerbose = "NW_VERBOSE"

// ExtensionPrefix prefixes the name of the external binaries run as nw subcommands.
const ExtensionPrefix = "nw-"

// RunExtension attempts to find and execute an external nw-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed to the extension as NW_* environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	return runExtension(subcommand, args, os.Stdin, stdout, stderr)
}

func runExtension(subcommand string, args []string, stdin io.Reader, stdout, stderr io.Writer) (bool, int) {
	name := ExtensionPrefix + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the global flags that are set, as environment variables.
func extensionEnv() []string {
	env := []string{EnvVerbose + "=" + strconv.FormatBool(*Verbose)}
	if *dataPath != "" {
		env = append(env, config.EnvData+"="+*dataPath)
	}
	if *year != 0 {
		env = append(env, config.EnvYear+"="+strconv.Itoa(*year))
	}
	return env
}
