package command

import (
	"errors"
	"testing"
)

func TestParseScoresArgs(t *testing.T) {
	type result struct {
		arg ScoresArgs
		err error
	}

	tests := []struct {
		input string
		want  result
	}{
		{
			input: "",
			want:  result{arg: ScoresArgs{Limit: 5}},
		},
		{
			input: " 10",
			want:  result{arg: ScoresArgs{Limit: 10}},
		},
		{
			input: " 3 Steve",
			want:  result{arg: ScoresArgs{Limit: 3, Player: "Steve"}},
		},
		{
			input: " Steve",
			want:  result{arg: ScoresArgs{Limit: 5, Player: "Steve"}},
		},
		{
			input: " 2 Big Steve",
			want:  result{arg: ScoresArgs{Limit: 2, Player: "Big Steve"}},
		},
		{
			input: " 0",
			want:  result{arg: ScoresArgs{Limit: 5}, err: ErrInvalidArgument},
		},
		{
			input: " -4",
			want:  result{arg: ScoresArgs{Limit: 5}, err: ErrInvalidArgument},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ScoresArgs{Limit: DefaultLimit}
			err := got.ParseArg(tt.input)

			if !errors.Is(err, tt.want.err) {
				t.Errorf("want err=%v, got err=%v", tt.want.err, err)
			}

			if got != tt.want.arg {
				t.Errorf("want arg=%v, got arg=%v", tt.want.arg, got)
			}
		})
	}
}

func TestParseStateArgs(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{input: "", want: nil},
		{input: "  ", want: nil},
		{input: " now", want: ErrInvalidArgument},
		{input: " 10", want: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			args := StateArgs{Op: OpEnd}
			err := args.ParseArg(tt.input)

			if !errors.Is(err, tt.want) {
				t.Errorf("want err=%v, got err=%v", tt.want, err)
			}
		})
	}
}
