// Package env reads typed values from an environment lookup function.
package env

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrKeyNotFound = errors.New("not found")

// Lookup is the signature of os.Getenv.
type Lookup func(key string) (val string)

func Get(key string, f Lookup) (string, error) {
	v := f(key)
	if v == "" {
		return "", ErrKeyNotFound
	}

	return v, nil
}

// List splits a comma-separated value, dropping blank entries.
func List(key string, f Lookup) ([]string, error) {
	v, err := Get(key, f)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func Duration(key string, f Lookup) (time.Duration, error) {
	v, err := Get(key, f)
	if err != nil {
		return 0, err
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
