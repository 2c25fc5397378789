// In file: internal/safecall/safecall.go

// Package safecall turns fallible, possibly panicking work into plain text.
// It backs the operations that must always hand a string back to their caller,
// such as the chat session and the calculator.
package safecall

import (
	"fmt"
	"log"
)

// String runs fn and returns its result. If fn returns an error or panics,
// the failure is rendered as "prefix: details" instead.
func String(prefix string, fn func() (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARNING: recovered panic (%s): %v", prefix, r)
			out = fmt.Sprintf("%s: %v", prefix, r)
		}
	}()

	result, err := fn()
	if err != nil {
		return fmt.Sprintf("%s: %v", prefix, err)
	}
	return result
}
