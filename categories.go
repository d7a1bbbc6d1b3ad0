package edbo

import "fmt"

// UniversityCategory is the registry's ut query parameter for the
// /api/universities listing.
type UniversityCategory int

const (
	CategoryHigherEducation       UniversityCategory = 1  // Заклади вищої освіти
	CategoryVocationalEducation   UniversityCategory = 2  // Заклади професійної (професійно-технічної) освіти
	CategoryScientificInstitutes  UniversityCategory = 8  // Наукові інститути (установи)
	CategoryPreHigherEducation    UniversityCategory = 9  // Заклади фахової передвищої освіти
	CategoryPostgraduateEducation UniversityCategory = 10 // Заклади післядипломної освіти
)

// UniversityCategories returns every category the registry serves on
// /api/universities.
func UniversityCategories() []UniversityCategory {
	return []UniversityCategory{
		CategoryHigherEducation,
		CategoryVocationalEducation,
		CategoryScientificInstitutes,
		CategoryPreHigherEducation,
		CategoryPostgraduateEducation,
	}
}

// Valid reports whether c is a category the registry serves.
func (c UniversityCategory) Valid() bool {
	switch c {
	case CategoryHigherEducation, CategoryVocationalEducation,
		CategoryScientificInstitutes, CategoryPreHigherEducation,
		CategoryPostgraduateEducation:
		return true
	}
	return false
}

func (c UniversityCategory) String() string {
	return fmt.Sprintf("%d", int(c))
}

// InstitutionCategory is the registry's ut query parameter for the
// /api/institutions listing. The registry currently exposes a single
// category there; it stays an enum so new wire values slot in without
// an API break.
type InstitutionCategory int

const (
	CategoryGeneralSecondary InstitutionCategory = 3 // Заклади загальної середньої освіти
)

// Valid reports whether c is a category the registry serves.
func (c InstitutionCategory) Valid() bool {
	return c == CategoryGeneralSecondary
}

func (c InstitutionCategory) String() string {
	return fmt.Sprintf("%d", int(c))
}
