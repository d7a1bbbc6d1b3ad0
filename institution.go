package edbo

// Institution is a secondary-education institution record, served both as
// listing rows by /api/institutions and as the detail record of /api/school.
type Institution struct {
	Name                string      `json:"institution_name"`
	ID                  FlexString  `json:"institution_id"`
	IsChecked           string      `json:"is_checked"`
	ShortName           string      `json:"short_name"`
	StateName           string      `json:"state_name"`
	TypeName            string      `json:"institution_type_name"`
	FinancingTypeName   string      `json:"university_financing_type_name"`
	KoatuuID            string      `json:"koatuu_id"`
	RegionName          string      `json:"region_name"`
	KoatuuName          string      `json:"koatuu_name"`
	Address             string      `json:"address"`
	ParentInstitutionID *string     `json:"parent_institution_id"`
	GovernanceName      string      `json:"governance_name"`
	Phone               string      `json:"phone"`
	Fax                 string      `json:"fax"`
	Email               string      `json:"email"`
	Website             string      `json:"website"`
	Boss                string      `json:"boss"`
	SupportName         string      `json:"support_name"`
	IsVillage           string      `json:"is_village"`
	IsMountain          string      `json:"is_mountain"`
	IsInternat          string      `json:"is_internat"`
	ApprovedCount       *FlexString `json:"approved_count"`
}
