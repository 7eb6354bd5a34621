//go:build !linux && !darwin

package main

import "os"

// listenForKeyboard reads line-buffered input; each key takes effect after Enter
func listenForKeyboard(appLog consoleLogger, quit func()) {
	readKeys(os.Stdin, os.Stdout, appLog, quit)
}
