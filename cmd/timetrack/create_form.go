package main

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var errEmptyTitle = errors.New("title must not be empty")

// promptTitle asks for a task title interactively when create is invoked
// without --title or a positional argument. Outside a terminal (piped
// stdin, scripts) there is nobody to prompt, so fail instead of hanging.
func promptTitle() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("a title is required when not running interactively")
	}
	var title string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task title").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errEmptyTitle
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}
