package edbo

// UniversityBrief is one row of the /api/universities listing. Field names
// follow the registry's JSON keys; the registry serializes nearly everything
// as strings, including year and boolean-ish flags.
type UniversityBrief struct {
	Name               string     `json:"university_name"`
	ID                 FlexString `json:"university_id"`
	ParentID           *string    `json:"university_parent_id"`
	ShortName          string     `json:"university_short_name"`
	NameEN             string     `json:"university_name_en"`
	IsFromCrimea       string     `json:"is_from_crimea"`
	RegistrationYear   FlexString `json:"registration_year"`
	TypeName           string     `json:"university_type_name"`
	FinancingTypeName  string     `json:"university_financing_type_name"`
	GovernanceTypeName string     `json:"university_governance_type_name"`
	PostIndex          string     `json:"post_index_u"`
	KatottgCode        string     `json:"katottgcodeu"`
	KatottgName        string     `json:"katottg_name_u"`
	RegionName         string     `json:"region_name_u"`
	Address            string     `json:"university_address_u"`
	Phone              string     `json:"university_phone"`
	Email              string     `json:"university_email"`
	Site               string     `json:"university_site"`
	DirectorPost       string     `json:"university_director_post"`
	DirectorName       string     `json:"university_director_fio"`
	CloseDate          *string    `json:"close_date"`
	Notes              string     `json:"primitki"`
}

// University is the detail record served by /api/university.
type University struct {
	Name               string     `json:"university_name"`
	ID                 FlexString `json:"university_id"`
	ParentID           *string    `json:"university_parent_id"`
	ShortName          string     `json:"university_short_name"`
	NameEN             string     `json:"university_name_en"`
	IsFromCrimea       string     `json:"is_from_crimea"`
	RegistrationYear   FlexString `json:"registration_year"`
	TypeName           string     `json:"university_type_name"`
	FinancingTypeName  string     `json:"university_financing_type_name"`
	GovernanceTypeName string     `json:"university_governance_type_name"`
	PostIndex          string     `json:"post_index_u"`
	KatottgCode        string     `json:"katottgcodeu"`
	KatottgName        string     `json:"katottg_name_u"`
	RegionName         string     `json:"region_name_u"`
	Address            string     `json:"university_address_u"`
	Phone              string     `json:"university_phone"`
	Email              string     `json:"university_email"`
	Site               string     `json:"university_site"`
	DirectorPost       string     `json:"university_director_post"`
	DirectorName       string     `json:"university_director_fio"`
	CloseDate          *string    `json:"close_date"`

	Branches           []UniversityBranch  `json:"branches"`
	Faculties          []string            `json:"facultets"`
	SpecialityLicenses []SpecialityLicense `json:"speciality_licenses"`
	ProfessionLicenses []ProfessionLicense `json:"profession_licenses"`
	Educators          []Educator          `json:"educators"`
}

// UniversityBranch is a branch campus entry inside a University record.
type UniversityBranch struct {
	Name        string     `json:"university_name"`
	ID          FlexString `json:"university_id"`
	RegionName  string     `json:"region_name"`
	KatottgCode string     `json:"katottgcodeu"`
	KatottgName string     `json:"katottg_name"`
}

// SpecialityLicense is one licensed speciality row of a University record.
type SpecialityLicense struct {
	QualificationGroupName string     `json:"qualification_group_name"`
	SpecialityCode         string     `json:"speciality_code"`
	SpecialityName         string     `json:"speciality_name"`
	SpecializationName     string     `json:"specialization_name"`
	AllCount               FlexString `json:"all_count"`
	AllTermCount           FlexString `json:"all_term_count"`
	FullTimeCount          FlexString `json:"full_time_count"`
	PartTimeCount          FlexString `json:"part_time_count"`
	EveningCount           FlexString `json:"evening_count"`
	Certificate            string     `json:"certificate"`
	CertificateExpired     *string    `json:"certificate_expired"`
	LicenseDescription     string     `json:"license_description"`
}

// ProfessionLicense is one licensed profession row of a University record.
type ProfessionLicense struct {
	Professions          string     `json:"professions"`
	LicenseCount         FlexString `json:"license_count"`
	Accreditation        string     `json:"accreditation"`
	AccreditationExpired string     `json:"accreditation_expired"`
}

// Educator is one enrollment row of a University record, broken down by
// study form.
type Educator struct {
	QualificationGroupName string     `json:"qualification_group_name"`
	SpecialityCode         string     `json:"speciality_code"`
	SpecialityName         string     `json:"speciality_name"`
	SpecializationName     string     `json:"specialization_name"`
	FullTimeCount          FlexString `json:"full_time_count"`
	PartTimeCount          FlexString `json:"part_time_count"`
	ExternalCount          FlexString `json:"external_count"`
	EveningCount           FlexString `json:"evening_count"`
	DistanceCount          FlexString `json:"distance_count"`
}
