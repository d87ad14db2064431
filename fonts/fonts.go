// Package fonts exposes the embedded faces a template may name. Labels must
// render identically on every host, so only embedded fonts are offered:
// system font lookup would substitute metrically different faces and
// silently change how text fits between preview and print.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default is the face used when a template names none.
const Default = "go-regular"

var faces = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-italic":  goitalic.TTF,
	"go-medium":  gomedium.TTF,
	"go-mono":    gomono.TTF,
}

// Load returns the TTF bytes for a face name. The empty name selects the
// default face.
func Load(name string) ([]byte, error) {
	if name == "" {
		name = Default
	}
	data, ok := faces[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown font %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Resolve picks the face for an element style: an explicit font name wins,
// otherwise the weight selects among the default family.
func Resolve(font, weight string) string {
	if font != "" {
		return normalize(font)
	}
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold":
		return "go-bold"
	case "medium":
		return "go-medium"
	case "italic":
		return "go-italic"
	default:
		return Default
	}
}

// Names lists the embedded faces, sorted.
func Names() []string {
	names := make([]string, 0, len(faces))
	for name := range faces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "-")
	n = strings.ReplaceAll(n, "_", "-")
	return n
}
