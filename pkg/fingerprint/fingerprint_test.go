package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

func TestForRecord_StableAcrossFormatting(t *testing.T) {
	t.Run("name normalization", func(t *testing.T) {
		a := models.WineRecord{Name: "Cremant de Loire Brut", Country: "France"}
		b := models.WineRecord{Name: "cremant loire", Country: "France"}
		assert.Equal(t, ForRecord(a), ForRecord(b))
	})

	t.Run("grape list order and case", func(t *testing.T) {
		a := models.WineRecord{Name: "Alpha", GrapeVariety: "Pinot Noir, Chardonnay"}
		b := models.WineRecord{Name: "Alpha", GrapeVariety: "chardonnay, pinot noir"}
		assert.Equal(t, ForRecord(a), ForRecord(b))
	})

	t.Run("volatile fields ignored", func(t *testing.T) {
		a := models.WineRecord{Name: "Alpha", Country: "France"}
		b := a
		b.Price = "2980円"
		b.Description = "Completely new tasting notes."
		b.SourceFile = "autumn.pdf"
		assert.Equal(t, ForRecord(a), ForRecord(b))
	})
}

func TestForRecord_SensitiveToIdentityFields(t *testing.T) {
	base := models.WineRecord{Name: "Alpha", Producer: "Maison Beta", Country: "France"}

	t.Run("different name", func(t *testing.T) {
		other := base
		other.Name = "Gamma"
		assert.NotEqual(t, ForRecord(base), ForRecord(other))
	})

	t.Run("different vintage", func(t *testing.T) {
		other := base
		other.Vintage = "2019"
		assert.NotEqual(t, ForRecord(base), ForRecord(other))
	})

	t.Run("different producer", func(t *testing.T) {
		other := base
		other.Producer = "Domaine Alpha"
		assert.NotEqual(t, ForRecord(base), ForRecord(other))
	})
}

func TestForName(t *testing.T) {
	assert.Equal(t, ForName("Cremant de Loire Brut"), ForName("cremant loire"))
	assert.NotEqual(t, ForName("Chablis"), ForName("Sancerre"))
}

func TestHasChanged(t *testing.T) {
	a := ForName("Chablis")
	b := ForName("Sancerre")
	assert.False(t, HasChanged(a, a))
	assert.True(t, HasChanged(a, b))
}
