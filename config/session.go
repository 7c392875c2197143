package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrBadSession = errors.New("failed to read the config file")

const (
	keyCycleReps      = "cycle_reps"
	keyMaxTurn        = "maxturn"
	keyMaxSearchDepth = "max_search_depth"
	keyPlayCardBonus  = "play_card_bonus"
)

// Session holds the simulation parameters. It is fixed for a session.
type Session struct {
	// CycleReps is the number of full-game playouts averaged per hand.
	CycleReps int
	// MaxTurn is the number of turns each playout runs.
	MaxTurn int
	// MaxSearchDepth is how many turns the evaluator looks ahead, the
	// current one included.
	MaxSearchDepth int
	// PlayCardBonus is added for every card played.
	PlayCardBonus int
}

// DefaultSession is handy for tests and for a quick start without a file.
func DefaultSession() Session {
	return Session{CycleReps: 4000, MaxTurn: 6, MaxSearchDepth: 2, PlayCardBonus: 1}
}

// LoadSession reads a session file from disk.
func LoadSession(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrBadSession, err)
	}
	defer f.Close()
	return ParseSession(f)
}

// ParseSession reads "<key> <value>" lines, separated by exactly one space.
// All four keys are required and must be integers; unknown keys are ignored.
func ParseSession(r io.Reader) (Session, error) {
	var s Session
	seen := map[string]bool{}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, " ")
		if len(fields) != 2 {
			return Session{}, fmt.Errorf("%w: line %d: expected <key> <value>", ErrBadSession, lineno)
		}
		key, raw := fields[0], fields[1]
		var dest *int
		switch key {
		case keyCycleReps:
			dest = &s.CycleReps
		case keyMaxTurn:
			dest = &s.MaxTurn
		case keyMaxSearchDepth:
			dest = &s.MaxSearchDepth
		case keyPlayCardBonus:
			dest = &s.PlayCardBonus
		default:
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Session{}, fmt.Errorf("%w: line %d: %s is not an integer", ErrBadSession, lineno, key)
		}
		*dest = v
		seen[key] = true
	}
	if err := scanner.Err(); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrBadSession, err)
	}
	for _, k := range []string{keyCycleReps, keyMaxTurn, keyMaxSearchDepth, keyPlayCardBonus} {
		if !seen[k] {
			return Session{}, fmt.Errorf("%w: missing %s", ErrBadSession, k)
		}
	}
	return s, s.Validate()
}

// Validate rejects parameter values the simulator cannot run with.
func (s Session) Validate() error {
	switch {
	case s.CycleReps < 1:
		return fmt.Errorf("%w: %s must be positive", ErrBadSession, keyCycleReps)
	case s.MaxTurn < 1:
		return fmt.Errorf("%w: %s must be positive", ErrBadSession, keyMaxTurn)
	case s.MaxSearchDepth < 1:
		return fmt.Errorf("%w: %s must be positive", ErrBadSession, keyMaxSearchDepth)
	}
	return nil
}

// Write serializes the session in the format ParseSession reads.
func (s Session) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %d\n%s %d\n%s %d\n%s %d\n",
		keyCycleReps, s.CycleReps,
		keyMaxTurn, s.MaxTurn,
		keyMaxSearchDepth, s.MaxSearchDepth,
		keyPlayCardBonus, s.PlayCardBonus)
	return err
}
