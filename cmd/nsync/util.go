package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsync-tools/nsync/internal/logging"
)

// validateGlobPatterns checks that all patterns are valid filepath.Match
// patterns.
func validateGlobPatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// drainErrors consumes per-file/per-directory errors from a channel and
// logs each one at Warn level. Carried over from dupedog's dedupe.go, but
// logs through the zap-backed logger rather than writing to stderr
// directly, since nsync's progress bar already owns the terminal line.
func drainErrors(errs <-chan error, log logging.Logger) {
	for err := range errs {
		log.Warnf("%v", err)
	}
}

// promptChoice prints prompt on stderr and reads one line from stdin,
// returning it trimmed. It is the input reader behind interactiveChoice
// (the block choice callback of the merge and batch commands) and
// promptYesNo.
func promptChoice(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptYesNo asks a yes/no question on stderr, defaulting to yes on
// empty input. Used for continue_cb and prompt_before_each_pattern.
func promptYesNo(prompt string) bool {
	answer, err := promptChoice(prompt + " [Y/n] ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y" || answer == "yes"
}
