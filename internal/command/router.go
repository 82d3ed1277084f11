package command

import (
	"regexp"
)

type ArgParser interface {
	ParseArg(s string) error
}

type ArgConstructor func() ArgParser

type Router struct {
	name     string
	handlers map[*regexp.Regexp]ArgConstructor
}

// NewRouter recognises "<name> <command>" messages. limit is the board
// size used when a scores command does not name one.
func NewRouter(name string, limit uint) *Router {
	r := Router{
		name:     name,
		handlers: make(map[*regexp.Regexp]ArgConstructor),
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	handlers := map[string]ArgConstructor{
		"start":  func() ArgParser { return &StateArgs{Op: OpStart} },
		"stop":   func() ArgParser { return &StateArgs{Op: OpStop} },
		"end":    func() ArgParser { return &StateArgs{Op: OpEnd} },
		"reset":  func() ArgParser { return &StateArgs{Op: OpReset} },
		"scores": func() ArgParser { return &ScoresArgs{Limit: limit} },
		"status": func() ArgParser { return new(StatusArgs) },
	}

	// the prefix requires the message to be prefaced with the bot's name
	prefix := `^(` + regexp.QuoteMeta(r.name) + `)`
	for cmd, ctor := range handlers {
		r.handlers[regexp.MustCompile(prefix+`\s+`+cmd+`\b`)] = ctor
	}

	return &r
}

// Route returns nil args for messages that are not commands.
func (r *Router) Route(s string) (args ArgParser, remainder string) {
	for matcher, action := range r.handlers {
		if matched := matcher.ReplaceAllString(s, ""); matched != s {
			return action(), matched
		}
	}

	return nil, s
}
