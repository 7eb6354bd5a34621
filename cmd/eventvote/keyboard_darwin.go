//go:build darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// listenForKeyboard puts the terminal in raw mode and dispatches single
// keystrokes. It returns silently when stdin is not a terminal.
func listenForKeyboard(appLog consoleLogger, quit func()) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		return
	}

	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return
	}

	readKeys(os.Stdin, os.Stdout, appLog, func() {
		_ = unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState)
		quit()
	})
}
