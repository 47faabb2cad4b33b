package console

import (
	"strings"

	"github.com/chzyer/readline"
)

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func Confirm(question string) (bool, error) {
	answer, err := Prompt(question+" [y/N]: ", "n", "y")
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

// Prompt reads one line. With constraints, the answer is normalized to one of them and the
// first one is returned for empty or unmatched input.
func Prompt(prompt string, constraints ...string) (string, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	response, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if len(constraints) == 0 {
		return response, nil
	}
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range constraints {
		if strings.HasPrefix(normalized, c) {
			return c, nil
		}
	}
	return constraints[0], nil
}
