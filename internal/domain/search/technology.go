package search

import (
	"fmt"
	"regexp"
)

// Technology selects one backend when several are exposed side by side.
// The zero value means a single backend without a path segment.
type Technology string

const (
	TechnologyNone Technology = ""
	JPA            Technology = "jpa"
	Mongo          Technology = "mongo"
	Elastic        Technology = "elastic"
)

var technologyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ParseTechnology validates a selector taken from user input.
func ParseTechnology(s string) (Technology, error) {
	t := Technology(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks the selector is safe to use as a URL path segment.
func (t Technology) Validate() error {
	if t == TechnologyNone || technologyPattern.MatchString(string(t)) {
		return nil
	}
	return fmt.Errorf("invalid technology %q", string(t))
}

// PathSegment returns "/<technology>" or "" for the single-backend layout.
func (t Technology) PathSegment() string {
	if t == TechnologyNone {
		return ""
	}
	return "/" + string(t)
}
