package lint

import (
	"fmt"

	"github.com/wader/respect/internal/location"
)

// Kind is a lint finding's error domain, replacing per-kind global error
// constants with a single parameterized enum (§9 design note).
type Kind int

const (
	KindStructural Kind = iota
	KindConfig
	KindWarning
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindConfig:
		return "config"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one reportable item, formatted lazily by the report boundary
// rather than pre-rendered at discovery time (§9 design note).
type Finding struct {
	Kind     Kind
	File     string
	Location location.Location
	Msg      string
}

func (f *Finding) Error() string {
	if f.File == "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
	}
	return fmt.Sprintf("%s: %s: %s: %s", f.Kind, f.File, f.Location, f.Msg)
}
