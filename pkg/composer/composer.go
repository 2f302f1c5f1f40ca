// Package composer combines one or two selected wines into the material an
// email campaign draft is written from.
package composer

import (
	"fmt"
	"strings"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

// MaxSelection is the most wines one campaign email can feature.
const MaxSelection = 2

// Selection is the combined wine information for email generation.
type Selection struct {
	Names          string `json:"names"`
	Producers      string `json:"producers"`
	Countries      string `json:"countries"`
	GrapeVarieties string `json:"grape_varieties"`
	Descriptions   string `json:"descriptions,omitempty"`
	WineCount      int    `json:"wine_count"`
}

// Compose merges one or two wines into a Selection. Zero wines or more than
// MaxSelection is an error.
func Compose(wines []models.WineRecord) (*Selection, error) {
	if len(wines) == 0 {
		return nil, fmt.Errorf("at least one wine must be provided")
	}
	if len(wines) > MaxSelection {
		return nil, fmt.Errorf("maximum of %d wines can be composed, got %d", MaxSelection, len(wines))
	}

	if len(wines) == 1 {
		w := wines[0]
		return &Selection{
			Names:          w.Name,
			Producers:      w.Producer,
			Countries:      w.Country,
			GrapeVarieties: w.GrapeVariety,
			Descriptions:   w.Description,
			WineCount:      1,
		}, nil
	}

	a, b := wines[0], wines[1]
	return &Selection{
		Names:          mergeField([]string{a.Name, b.Name}, " & "),
		Producers:      mergeField([]string{a.Producer, b.Producer}, " / "),
		Countries:      mergeField([]string{a.Country, b.Country}, " & "),
		GrapeVarieties: mergeField([]string{a.GrapeVariety, b.GrapeVariety}, " + "),
		Descriptions:   mergeDescriptions(a, b),
		WineCount:      2,
	}, nil
}

// Preview renders a short display line for the selection.
func Preview(s *Selection) string {
	var parts []string
	if s.WineCount == 1 {
		if s.Producers != "" {
			parts = append(parts, "Producer: "+s.Producers)
		}
		if s.Countries != "" {
			parts = append(parts, "Country: "+s.Countries)
		}
		if s.GrapeVarieties != "" {
			parts = append(parts, "Grape: "+s.GrapeVarieties)
		}
		if len(parts) == 0 {
			return "Single wine selected"
		}
	} else {
		if s.Countries != "" {
			parts = append(parts, "Countries: "+s.Countries)
		}
		if s.GrapeVarieties != "" {
			parts = append(parts, "Grapes: "+s.GrapeVarieties)
		}
		if len(parts) == 0 {
			return "Two wines selected"
		}
	}
	return strings.Join(parts, " • ")
}

// mergeField joins the non-empty values with separator, dropping
// case-insensitive duplicates while preserving order.
func mergeField(values []string, separator string) string {
	var unique []string
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if !seen[key] {
			unique = append(unique, v)
			seen[key] = true
		}
	}
	return strings.Join(unique, separator)
}

// mergeDescriptions labels each wine's description with its name so the two
// read as separate blocks in the email body.
func mergeDescriptions(a, b models.WineRecord) string {
	var blocks []string
	if a.Description != "" {
		blocks = append(blocks, "【"+nameOr(a.Name, "Wine 1")+"】"+a.Description)
	}
	if b.Description != "" {
		blocks = append(blocks, "【"+nameOr(b.Name, "Wine 2")+"】"+b.Description)
	}
	return strings.Join(blocks, "\n\n")
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
