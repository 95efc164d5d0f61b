package slike

import (
	"fmt"
	"strings"
)

type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
)

// ParseEnvironment resolves a caller-supplied environment tag,
// case-insensitively. An empty tag means production. Unrecognized tags
// are an *InvalidInputError rather than a silent default.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(s) {
	case "", string(EnvironmentProduction), "prod":
		return EnvironmentProduction, nil
	case string(EnvironmentDevelopment), "dev":
		return EnvironmentDevelopment, nil
	default:
		return EnvironmentProduction, &InvalidInputError{
			Param:   "environment",
			Message: fmt.Sprintf("invalid environment %q: must be \"production\"/\"prod\" or \"development\"/\"dev\"", s),
		}
	}
}

// TokenHeader is the header key carrying the credential for this
// environment. The development key is used whenever the environment
// resolved to development, even when the credential itself fell back to
// the primary token.
func (e Environment) TokenHeader() string {
	if e == EnvironmentDevelopment {
		return "token-dev"
	}
	return "token"
}
