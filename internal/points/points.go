// Package points turns the tags on a deposited item stack into a point
// value.
package points

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultNamespace = "scoreit"

	// Tags without an explicit namespace belong to the game's own.
	implicitNamespace = "minecraft"
	pointSuffix       = "_point"
)

var (
	ErrNoPointTag      = errors.New("item has no point tag")
	ErrInvalidPointTag = errors.New("invalid point tag")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Deriver knows which tag namespace carries point values.
type Deriver struct {
	Namespace string
}

func New(namespace string) Deriver {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Deriver{Namespace: namespace}
}

// Derive returns the value of quantity items carrying tags. The first tag
// of the form "<namespace>:<N>_point" decides the per-item value N.
func (d Deriver) Derive(tags []string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	tag, path, ok := d.pointTag(tags)
	if !ok {
		return 0, ErrNoPointTag
	}

	value, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(path, pointSuffix)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPointTag, tag, err)
	}
	total := value * quantity
	if total/quantity != value {
		return 0, fmt.Errorf("%w %q: %d items overflow the point total", ErrInvalidPointTag, tag, quantity)
	}
	return total, nil
}

func (d Deriver) pointTag(tags []string) (string, string, bool) {
	for _, tag := range tags {
		ns, path := split(tag)
		if ns == d.Namespace && strings.HasSuffix(path, pointSuffix) {
			return tag, path, true
		}
	}
	return "", "", false
}

func split(tag string) (namespace, path string) {
	ns, path, found := strings.Cut(strings.TrimPrefix(tag, "#"), ":")
	if !found {
		return implicitNamespace, ns
	}
	return ns, path
}
