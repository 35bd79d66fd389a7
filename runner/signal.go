package runner

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// signalByName maps the extensible SignalName vocabulary to POSIX
// signal numbers.
var signalByName = map[string]unix.Signal{
	"SIGINT":   unix.SIGINT,
	"SIGTERM":  unix.SIGTERM,
	"SIGKILL":  unix.SIGKILL,
	"SIGWINCH": unix.SIGWINCH,
	"SIGSTOP":  unix.SIGSTOP,
	"SIGCONT":  unix.SIGCONT,
}

func lookupSignal(name string) (unix.Signal, error) {
	sig, ok := signalByName[name]
	if !ok {
		return 0, fmt.Errorf("runner: unknown signal %q", name)
	}
	return sig, nil
}

func signalName(sig unix.Signal) string {
	for name, s := range signalByName {
		if s == sig {
			return name
		}
	}
	return sig.String()
}
