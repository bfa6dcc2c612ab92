package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionCategory is the closed topic taxonomy for submitted questions.
type QuestionCategory string

const (
	CategoryTefillah      QuestionCategory = "tefillah"
	CategoryShabbat       QuestionCategory = "shabbat"
	CategoryKashrut       QuestionCategory = "kashrut"
	CategoryBrachot       QuestionCategory = "brachot"
	CategoryHolidays      QuestionCategory = "holidays"
	CategoryTaharat       QuestionCategory = "taharat"
	CategoryTzedakah      QuestionCategory = "tzedakah"
	CategoryMourning      QuestionCategory = "mourning"
	CategoryStudy         QuestionCategory = "study"
	CategoryInterpersonal QuestionCategory = "interpersonal"
	CategoryMedical       QuestionCategory = "medical"
	CategoryTravel        QuestionCategory = "travel"
	CategoryWork          QuestionCategory = "work"
	CategoryConversion    QuestionCategory = "conversion"
	CategoryMarriage      QuestionCategory = "marriage"
	CategoryDivorce       QuestionCategory = "divorce"
	CategoryInheritance   QuestionCategory = "inheritance"
	CategoryVows          QuestionCategory = "vows"
	CategoryTemple        QuestionCategory = "temple"
	CategoryOther         QuestionCategory = "other"
)

var categoryLabels = map[QuestionCategory]string{
	CategoryTefillah:      "תפילה",
	CategoryShabbat:       "שבת",
	CategoryKashrut:       "כשרות",
	CategoryBrachot:       "ברכות",
	CategoryHolidays:      "חגים ומועדים",
	CategoryTaharat:       "טהרת המשפחה",
	CategoryTzedakah:      "צדקה ומעשרות",
	CategoryMourning:      "אבלות",
	CategoryStudy:         "לימוד תורה",
	CategoryInterpersonal: "בין אדם לחברו",
	CategoryMedical:       "רפואה ובריאות",
	CategoryTravel:        "נסיעות",
	CategoryWork:          "עבודה ועסקים",
	CategoryConversion:    "גיור",
	CategoryMarriage:      "נישואין",
	CategoryDivorce:       "גירושין",
	CategoryInheritance:   "ירושה",
	CategoryVows:          "נדרים ושבועות",
	CategoryTemple:        "בית המקדש",
	CategoryOther:         "אחר",
}

func ParseQuestionCategory(s string) (QuestionCategory, error) {
	if _, ok := categoryLabels[QuestionCategory(s)]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return QuestionCategory(s), nil
}

func (c QuestionCategory) Label() string {
	return categoryLabels[c]
}

func Categories() []QuestionCategory {
	out := make([]QuestionCategory, 0, len(categoryLabels))
	for c := range categoryLabels {
		out = append(out, c)
	}
	return out
}

// LoadCategoryLabels overlays display labels from a YAML file of the form
// `category: label`. Unknown categories in the file are rejected so a typo
// cannot widen the taxonomy.
func LoadCategoryLabels(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read taxonomy file: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("parse taxonomy file: %w", err)
	}
	for k, v := range overrides {
		cat, err := ParseQuestionCategory(k)
		if err != nil {
			return err
		}
		if v != "" {
			categoryLabels[cat] = v
		}
	}
	return nil
}
