package royaltix

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// defaultTitleLen is the prefix length used when a title is derived from the
// prompt or content.
const defaultTitleLen = 50

// ValidateInputs checks the user-supplied licensing and collaborator values.
// Prices must be non-negative and finite. When any collaborators are given,
// their percentages must be positive and sum to 100.
func ValidateInputs(lic Licensing, collaborators []Collaborator) error {
	for _, tier := range []struct {
		name  string
		price float64
	}{
		{"personal", lic.Personal},
		{"commercial", lic.Commercial},
		{"exclusive", lic.Exclusive},
	} {
		if tier.price < 0 || math.IsNaN(tier.price) || math.IsInf(tier.price, 0) {
			return fmt.Errorf("%w: %s license price must be a non-negative number", ErrInvalidInput, tier.name)
		}
	}

	if len(collaborators) == 0 {
		return nil
	}

	var total float64
	for i, c := range collaborators {
		if c.Address == "" {
			return fmt.Errorf("%w: collaborator %d has no address", ErrInvalidInput, i)
		}
		if c.Percentage <= 0 {
			return fmt.Errorf("%w: collaborator %s percentage must be positive", ErrInvalidInput, c.Address)
		}
		total += c.Percentage
	}
	if math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("%w: collaborator percentages sum to %g, expected 100", ErrInvalidInput, total)
	}
	return nil
}

// generation is the outcome of the generating step, carrying the produced
// content plus the sources for defaulted metadata fields.
type generation struct {
	content            string
	imageBase64        string
	titleSource        string
	defaultDescription string
}

// buildMetadata assembles the descriptive document around generated or
// uploaded content. Title defaults to a truncated prefix of the prompt or
// content when unspecified; description defaults per mode and type.
func buildMetadata(req CreateAssetRequest, g generation, now time.Time) AssetMetadata {
	name := strings.TrimSpace(req.Title)
	if name == "" {
		name = truncate(strings.TrimSpace(g.titleSource), defaultTitleLen)
	}
	if name == "" {
		name = "Untitled"
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = g.defaultDescription
	}

	return AssetMetadata{
		Name:          name,
		Description:   description,
		ContentType:   req.ContentType,
		Mode:          req.Mode,
		FullContent:   g.content,
		ImageBase64:   g.imageBase64,
		Licensing:     req.Licensing,
		Collaborators: req.Collaborators,
		CreatedAt:     now,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// stripExtension removes the final extension from an uploaded file name.
func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
