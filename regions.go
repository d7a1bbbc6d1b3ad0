package edbo

import "fmt"

// Region is the KOATUU region code the registry uses for the lc query
// parameter. The numbering has gaps; these are the codes the registry
// actually serves.
type Region int

const (
	RegionCrimea          Region = 1  // Автономна Республіка Крим
	RegionVinnytsia       Region = 5  // Вінницька область
	RegionVolyn           Region = 7  // Волинська область
	RegionDnipropetrovsk  Region = 12 // Дніпропетровська область
	RegionDonetsk         Region = 14 // Донецька область
	RegionZhytomyr        Region = 18 // Житомирська область
	RegionZakarpattia     Region = 21 // Закарпатська область
	RegionZaporizhzhia    Region = 23 // Запорізька область
	RegionIvanoFrankivsk  Region = 26 // Івано-Франківська область
	RegionKyivOblast      Region = 32 // Київська область
	RegionKirovohrad      Region = 35 // Кіровоградська область
	RegionLuhansk         Region = 44 // Луганська область
	RegionLviv            Region = 46 // Львівська область
	RegionMykolaiv        Region = 48 // Миколаївська область
	RegionOdesa           Region = 51 // Одеська область
	RegionPoltava         Region = 53 // Полтавська область
	RegionRivne           Region = 56 // Рівненська область
	RegionSumy            Region = 59 // Сумська область
	RegionTernopil        Region = 61 // Тернопільська область
	RegionKharkiv         Region = 63 // Харківська область
	RegionKherson         Region = 65 // Херсонська область
	RegionKhmelnytskyi    Region = 68 // Хмельницька область
	RegionCherkasy        Region = 71 // Черкаська область
	RegionChernivtsi      Region = 73 // Чернівецька область
	RegionChernihiv       Region = 74 // Чернігівська область
	RegionKyivCity        Region = 80 // м. Київ
	RegionSevastopolCity  Region = 85 // м. Севастополь
)

var regionNames = map[Region]string{
	RegionCrimea:         "Автономна Республіка Крим",
	RegionVinnytsia:      "Вінницька область",
	RegionVolyn:          "Волинська область",
	RegionDnipropetrovsk: "Дніпропетровська область",
	RegionDonetsk:        "Донецька область",
	RegionZhytomyr:       "Житомирська область",
	RegionZakarpattia:    "Закарпатська область",
	RegionZaporizhzhia:   "Запорізька область",
	RegionIvanoFrankivsk: "Івано-Франківська область",
	RegionKyivOblast:     "Київська область",
	RegionKirovohrad:     "Кіровоградська область",
	RegionLuhansk:        "Луганська область",
	RegionLviv:           "Львівська область",
	RegionMykolaiv:       "Миколаївська область",
	RegionOdesa:          "Одеська область",
	RegionPoltava:        "Полтавська область",
	RegionRivne:          "Рівненська область",
	RegionSumy:           "Сумська область",
	RegionTernopil:       "Тернопільська область",
	RegionKharkiv:        "Харківська область",
	RegionKherson:        "Херсонська область",
	RegionKhmelnytskyi:   "Хмельницька область",
	RegionCherkasy:       "Черкаська область",
	RegionChernivtsi:     "Чернівецька область",
	RegionChernihiv:      "Чернігівська область",
	RegionKyivCity:       "м. Київ",
	RegionSevastopolCity: "м. Севастополь",
}

// Regions returns every region code the registry serves, in ascending order.
func Regions() []Region {
	return []Region{
		RegionCrimea, RegionVinnytsia, RegionVolyn, RegionDnipropetrovsk,
		RegionDonetsk, RegionZhytomyr, RegionZakarpattia, RegionZaporizhzhia,
		RegionIvanoFrankivsk, RegionKyivOblast, RegionKirovohrad, RegionLuhansk,
		RegionLviv, RegionMykolaiv, RegionOdesa, RegionPoltava, RegionRivne,
		RegionSumy, RegionTernopil, RegionKharkiv, RegionKherson,
		RegionKhmelnytskyi, RegionCherkasy, RegionChernivtsi, RegionChernihiv,
		RegionKyivCity, RegionSevastopolCity,
	}
}

// Valid reports whether r is a region code the registry serves.
func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

// Name returns the Ukrainian name of the region, or "" for unknown codes.
func (r Region) Name() string {
	return regionNames[r]
}

func (r Region) String() string {
	return fmt.Sprintf("%d", int(r))
}
