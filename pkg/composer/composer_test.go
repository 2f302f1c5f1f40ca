package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

func TestCompose_SelectionBounds(t *testing.T) {
	t.Run("zero wines", func(t *testing.T) {
		sel, err := Compose(nil)
		assert.Error(t, err)
		assert.Nil(t, sel)
	})

	t.Run("too many wines", func(t *testing.T) {
		sel, err := Compose([]models.WineRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}})
		assert.Error(t, err)
		assert.Nil(t, sel)
	})
}

func TestCompose_SingleWine(t *testing.T) {
	sel, err := Compose([]models.WineRecord{{
		Name:         "ボニトゥラ NV",
		Producer:     "Casa de Fonte Pequena",
		Country:      "ポルトガル",
		GrapeVariety: "Loureiro",
		Description:  "微発泡の白ワインです。",
	}})
	require.NoError(t, err)

	assert.Equal(t, "ボニトゥラ NV", sel.Names)
	assert.Equal(t, "Casa de Fonte Pequena", sel.Producers)
	assert.Equal(t, "ポルトガル", sel.Countries)
	assert.Equal(t, "Loureiro", sel.GrapeVarieties)
	assert.Equal(t, "微発泡の白ワインです。", sel.Descriptions)
	assert.Equal(t, 1, sel.WineCount)
}

func TestCompose_TwoWines(t *testing.T) {
	a := models.WineRecord{
		Name:         "Cremant de Loire Brut",
		Producer:     "Domaine Alpha",
		Country:      "France",
		GrapeVariety: "Chenin Blanc",
		Description:  "Crisp and dry.",
	}
	b := models.WineRecord{
		Name:         "ボニトゥラ NV",
		Producer:     "Casa de Fonte Pequena",
		Country:      "Portugal",
		GrapeVariety: "Loureiro",
		Description:  "軽やかな微発泡。",
	}

	sel, err := Compose([]models.WineRecord{a, b})
	require.NoError(t, err)

	assert.Equal(t, "Cremant de Loire Brut & ボニトゥラ NV", sel.Names)
	assert.Equal(t, "Domaine Alpha / Casa de Fonte Pequena", sel.Producers)
	assert.Equal(t, "France & Portugal", sel.Countries)
	assert.Equal(t, "Chenin Blanc + Loureiro", sel.GrapeVarieties)
	assert.Equal(t, "【Cremant de Loire Brut】Crisp and dry.\n\n【ボニトゥラ NV】軽やかな微発泡。", sel.Descriptions)
	assert.Equal(t, 2, sel.WineCount)
}

func TestCompose_FieldDeduplication(t *testing.T) {
	a := models.WineRecord{Name: "Alpha", Country: "France", GrapeVariety: "Pinot Noir"}
	b := models.WineRecord{Name: "Beta", Country: "france", GrapeVariety: "Pinot Noir"}

	sel, err := Compose([]models.WineRecord{a, b})
	require.NoError(t, err)

	// Same value differing only in case appears once, keeping the first
	// spelling seen.
	assert.Equal(t, "France", sel.Countries)
	assert.Equal(t, "Pinot Noir", sel.GrapeVarieties)
	assert.Equal(t, "Alpha & Beta", sel.Names)
}

func TestCompose_EmptyFieldsSkipped(t *testing.T) {
	a := models.WineRecord{Name: "Alpha", Producer: "", Description: ""}
	b := models.WineRecord{Name: "Beta", Producer: "Maison Beta", Description: "Notes of citrus."}

	sel, err := Compose([]models.WineRecord{a, b})
	require.NoError(t, err)

	assert.Equal(t, "Maison Beta", sel.Producers)
	assert.Equal(t, "【Beta】Notes of citrus.", sel.Descriptions)
}

func TestCompose_DescriptionFallbackLabels(t *testing.T) {
	a := models.WineRecord{Name: "", Description: "First description."}
	b := models.WineRecord{Name: "", Description: "Second description."}

	sel, err := Compose([]models.WineRecord{a, b})
	require.NoError(t, err)

	assert.Equal(t, "【Wine 1】First description.\n\n【Wine 2】Second description.", sel.Descriptions)
}

func TestPreview(t *testing.T) {
	t.Run("single wine with details", func(t *testing.T) {
		sel := &Selection{
			Producers:      "Domaine Alpha",
			Countries:      "France",
			GrapeVarieties: "Chardonnay",
			WineCount:      1,
		}
		assert.Equal(t, "Producer: Domaine Alpha • Country: France • Grape: Chardonnay", Preview(sel))
	})

	t.Run("single wine without details", func(t *testing.T) {
		sel := &Selection{Names: "Mystery Wine", WineCount: 1}
		assert.Equal(t, "Single wine selected", Preview(sel))
	})

	t.Run("two wines with details", func(t *testing.T) {
		sel := &Selection{
			Countries:      "France & Portugal",
			GrapeVarieties: "Chenin Blanc + Loureiro",
			WineCount:      2,
		}
		assert.Equal(t, "Countries: France & Portugal • Grapes: Chenin Blanc + Loureiro", Preview(sel))
	})

	t.Run("two wines without details", func(t *testing.T) {
		sel := &Selection{Names: "A & B", WineCount: 2}
		assert.Equal(t, "Two wines selected", Preview(sel))
	})
}
