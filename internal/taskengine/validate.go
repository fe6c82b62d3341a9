package taskengine

import (
	"strings"

	"github.com/untoldecay/timetrack/internal/model"
)

// TaskValidator checks one precondition against a loaded task and returns
// an error if it fails. Validators compose with Chain.
type TaskValidator func(id string, t *model.Task) error

// Chain runs validators in order, stopping at the first error.
func Chain(validators ...TaskValidator) TaskValidator {
	return func(id string, t *model.Task) error {
		for _, v := range validators {
			if err := v(id, t); err != nil {
				return err
			}
		}
		return nil
	}
}

// Exists fails with NotFound when t is nil. Task loads already filter out
// archived rows, so a nil t covers both unknown and archived ids.
func Exists() TaskValidator {
	return func(id string, t *model.Task) error {
		if t == nil {
			return model.NotFound("task %s not found", id)
		}
		return nil
	}
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.InvalidInput("title must not be empty")
	}
	return title, nil
}

func cleanTag(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.InvalidInput("tag must not be empty")
	}
	return name, nil
}
