package command

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/scoreit/scoreit/errors"
)

var (
	ErrMissingArgument = errors.ErrMissingArgument
	ErrInvalidArgument = errors.ErrInvalidArgument
)

// DefaultLimit is the number of ranks shown by "scores".
const DefaultLimit uint = 5

type Op string

const (
	OpStart Op = "start"
	OpStop  Op = "stop"
	OpEnd   Op = "end"
	OpReset Op = "reset"
)

// StateArgs is a game state command. It takes no arguments.
type StateArgs struct {
	Op Op
}

func (args *StateArgs) ParseArg(s string) error {
	if strings.TrimSpace(s) != "" {
		return ErrInvalidArgument
	}
	return nil
}

type StatusArgs struct{}

func (args *StatusArgs) ParseArg(s string) error {
	return nil
}

// ScoresArgs is "scores [limit] [player]". The player, when given, is
// shown with their rank even if they fall outside the limit.
type ScoresArgs struct {
	Limit  uint
	Player string
}

func (args *ScoresArgs) ParseArg(s string) error {
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Split(bufio.ScanWords)

	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}

	if limit, err := strconv.Atoi(words[0]); err == nil {
		if limit < 1 {
			return ErrInvalidArgument
		}
		args.Limit = uint(limit)
		words = words[1:]
	}

	args.Player = strings.Join(words, " ")
	return nil
}
