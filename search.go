package edbo

// SearchParams collects the query parameters of a registry search. Zero
// values mean "not set"; each operation validates the fields it needs and
// returns a *MissingParamError or *InvalidParamError before any network I/O.
type SearchParams struct {
	ID                  int
	Region              Region
	UniversityCategory  UniversityCategory
	InstitutionCategory InstitutionCategory
}

// NewSearchParams returns empty search parameters.
func NewSearchParams() SearchParams {
	return SearchParams{}
}

// WithID sets the record id for by-id lookups.
func (p SearchParams) WithID(id int) SearchParams {
	p.ID = id
	return p
}

// WithRegion sets the region filter for list searches.
func (p SearchParams) WithRegion(r Region) SearchParams {
	p.Region = r
	return p
}

// WithUniversityCategory sets the ut filter for /api/universities.
func (p SearchParams) WithUniversityCategory(c UniversityCategory) SearchParams {
	p.UniversityCategory = c
	return p
}

// WithInstitutionCategory sets the ut filter for /api/institutions.
func (p SearchParams) WithInstitutionCategory(c InstitutionCategory) SearchParams {
	p.InstitutionCategory = c
	return p
}

func (p SearchParams) validateUniversityList() error {
	if p.UniversityCategory == 0 {
		return &MissingParamError{Field: "university_category"}
	}
	if !p.UniversityCategory.Valid() {
		return &InvalidParamError{Field: "university_category", Reason: "unknown category code"}
	}
	if p.Region == 0 {
		return &MissingParamError{Field: "region"}
	}
	if !p.Region.Valid() {
		return &InvalidParamError{Field: "region", Reason: "unknown region code"}
	}
	return nil
}

func (p SearchParams) validateInstitutionList() error {
	if p.InstitutionCategory == 0 {
		return &MissingParamError{Field: "institution_category"}
	}
	if !p.InstitutionCategory.Valid() {
		return &InvalidParamError{Field: "institution_category", Reason: "unknown category code"}
	}
	if p.Region == 0 {
		return &MissingParamError{Field: "region"}
	}
	if !p.Region.Valid() {
		return &InvalidParamError{Field: "region", Reason: "unknown region code"}
	}
	return nil
}

func validateID(id int) error {
	if id == 0 {
		return &MissingParamError{Field: "id"}
	}
	if id < 1 {
		return &InvalidParamError{Field: "id", Reason: "must be positive"}
	}
	return nil
}
