package merging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

func TestMerge_JapaneseNameWins(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "ボニトゥラ NV", Country: "ポルトガル", SourceFile: "list_a.pdf"}
	b := models.WineRecord{Name: "CASA DE FONTE PEQUENA BONITURA NV", Producer: "Casa de Fonte Pequena", SourceFile: "list_b.pdf"}

	merged, decision := m.Merge(a, b)

	assert.Equal(t, "ボニトゥラ NV", merged.Name)
	assert.Equal(t, "a", decision.PrimaryChosen)
	assert.Greater(t, decision.JPScoreA, 0)
	assert.Equal(t, 0, decision.JPScoreB)
	// Fields fill in from the Latin record where the Japanese one is empty.
	assert.Equal(t, "Casa de Fonte Pequena", merged.Producer)
	assert.Equal(t, "ポルトガル", merged.Country)
}

func TestMerge_JapaneseNameWinsRegardlessOfOrder(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "CASA DE FONTE PEQUENA BONITURA NV"}
	b := models.WineRecord{Name: "ボニトゥラ NV"}

	merged, decision := m.Merge(a, b)

	assert.Equal(t, "ボニトゥラ NV", merged.Name)
	assert.Equal(t, "b", decision.PrimaryChosen)
}

func TestMerge_DescriptionsConcatenate(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "Cremant de Loire Brut", Producer: "Domaine Alpha", Description: "Crisp."}
	b := models.WineRecord{Name: "Cremant de Loire Brut", Producer: "Maison Beta", Description: "Apple notes."}

	merged, _ := m.Merge(a, b)

	assert.Equal(t, "Crisp. | Apple notes.", merged.Description)
}

func TestMerge_IdenticalDescriptionsNotDuplicated(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "Monte Verde", Description: "Dry and mineral."}
	b := models.WineRecord{Name: "Monte Verde", Description: "Dry and mineral."}

	merged, _ := m.Merge(a, b)

	assert.Equal(t, "Dry and mineral.", merged.Description)
}

func TestMerge_SourceUnion(t *testing.T) {
	m := NewMerger()

	t.Run("both sources survive in first-seen order", func(t *testing.T) {
		a := models.WineRecord{Name: "Monte Verde", SourceFile: "spring.pdf"}
		b := models.WineRecord{Name: "Monte Verde", SourceFile: "summer.pdf"}

		merged, _ := m.Merge(a, b)
		assert.Equal(t, "spring.pdf, summer.pdf", merged.SourceFile)
	})

	t.Run("already merged source lists deduplicate", func(t *testing.T) {
		a := models.WineRecord{Name: "Monte Verde", SourceFile: "spring.pdf, summer.pdf"}
		b := models.WineRecord{Name: "Monte Verde", SourceFile: "summer.pdf, autumn.pdf"}

		merged, _ := m.Merge(a, b)
		assert.Equal(t, "spring.pdf, summer.pdf, autumn.pdf", merged.SourceFile)
	})

	t.Run("empty source on one side", func(t *testing.T) {
		a := models.WineRecord{Name: "Monte Verde"}
		b := models.WineRecord{Name: "Monte Verde", SourceFile: "summer.pdf"}

		merged, _ := m.Merge(a, b)
		assert.Equal(t, "summer.pdf", merged.SourceFile)
	})
}

// An empty record against a fully-populated one with the same name must
// come out identical to the populated record.
func TestMerge_EmptyFieldsFillFromPopulatedRecord(t *testing.T) {
	m := NewMerger()

	bare := models.WineRecord{Name: "Cremant de Loire Brut", SourceFile: "a.pdf"}
	full := models.WineRecord{
		Name:           "Cremant de Loire Brut",
		Producer:       "Domaine Alpha",
		Country:        "France",
		Region:         "Loire",
		GrapeVariety:   "Chenin Blanc",
		Vintage:        "NV",
		Price:          "2980円",
		AlcoholContent: "12.5%",
		Description:    "Fine bubbles.",
		SourceFile:     "b.pdf",
	}

	merged, decision := m.Merge(bare, full)

	assert.Equal(t, "b", decision.PrimaryChosen)
	assert.Equal(t, full.Producer, merged.Producer)
	assert.Equal(t, full.Country, merged.Country)
	assert.Equal(t, full.Region, merged.Region)
	assert.Equal(t, full.GrapeVariety, merged.GrapeVariety)
	assert.Equal(t, full.Vintage, merged.Vintage)
	assert.Equal(t, full.Price, merged.Price)
	assert.Equal(t, full.AlcoholContent, merged.AlcoholContent)
	assert.Equal(t, full.Description, merged.Description)
	assert.Equal(t, "a.pdf, b.pdf", merged.SourceFile)
}

func TestMerge_JapaneseFieldValuePreferred(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "ボニトゥラ NV", Country: "ポルトガル"}
	b := models.WineRecord{Name: "Bonitura", Country: "Portugal"}

	merged, _ := m.Merge(a, b)
	assert.Equal(t, "ポルトガル", merged.Country)
}

func TestMerge_LatinNameTiebreaks(t *testing.T) {
	m := NewMerger()

	t.Run("much longer name wins", func(t *testing.T) {
		a := models.WineRecord{Name: "Chablis"}
		b := models.WineRecord{Name: "Domaine Alpha Chablis Vieilles Vignes"}

		merged, _ := m.Merge(a, b)
		assert.Equal(t, "Domaine Alpha Chablis Vieilles Vignes", merged.Name)
	})

	t.Run("similar length falls back to wine terms", func(t *testing.T) {
		a := models.WineRecord{Name: "Loire Valley White"}
		b := models.WineRecord{Name: "Cremant Loire Brut"}

		merged, _ := m.Merge(a, b)
		assert.Equal(t, "Cremant Loire Brut", merged.Name)
	})
}

func TestMerge_InputsNotMutated(t *testing.T) {
	m := NewMerger()

	a := models.WineRecord{Name: "Monte Verde", Description: "Dry."}
	b := models.WineRecord{Name: "Monte Verde", Description: "Mineral."}
	aCopy, bCopy := a, b

	m.Merge(a, b)

	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}
