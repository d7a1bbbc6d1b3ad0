package edbo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockServer is a configurable in-memory registry for testing. It mirrors
// the four opendata endpoints and supports fault injection per endpoint.
type MockServer struct {
	*httptest.Server
	mu           sync.Mutex
	universities map[string][]UniversityBrief // key: "lc:ut"
	university   map[int]*University
	institutions map[string][]Institution
	schools      map[int]*Institution
	failures     map[string]int // remaining 500s before success, per endpoint
	hits         map[string]int // requests served, per endpoint
}

// NewMockServer creates a registry mock pre-loaded with default fixtures.
func NewMockServer() *MockServer {
	m := &MockServer{
		universities: make(map[string][]UniversityBrief),
		university:   make(map[int]*University),
		institutions: make(map[string][]Institution),
		schools:      make(map[int]*Institution),
		failures:     make(map[string]int),
		hits:         make(map[string]int),
	}
	m.SetDefaultData()

	mux := http.NewServeMux()
	mux.HandleFunc(universitiesEndpoint, m.handleUniversities)
	mux.HandleFunc(universityEndpoint, m.handleUniversity)
	mux.HandleFunc(institutionsEndpoint, m.handleInstitutions)
	mux.HandleFunc(schoolEndpoint, m.handleSchool)

	m.Server = httptest.NewServer(mux)
	return m
}

// SetDefaultData loads a small realistic fixture set.
func (m *MockServer) SetDefaultData() {
	m.mu.Lock()
	defer m.mu.Unlock()

	kyiv := listKey(RegionKyivCity, int(CategoryHigherEducation))
	m.universities[kyiv] = []UniversityBrief{
		{
			Name:             "Київський національний університет імені Тараса Шевченка",
			ID:               "41",
			ShortName:        "КНУ ім. Тараса Шевченка",
			NameEN:           "Taras Shevchenko National University of Kyiv",
			RegistrationYear: "1834",
			TypeName:         "університет",
			RegionName:       "м. Київ",
		},
		{
			Name:             "Національний технічний університет України \"КПІ ім. Ігоря Сікорського\"",
			ID:               "174",
			ShortName:        "КПІ ім. Ігоря Сікорського",
			NameEN:           "Igor Sikorsky Kyiv Polytechnic Institute",
			RegistrationYear: "1898",
			TypeName:         "університет",
			RegionName:       "м. Київ",
		},
	}

	m.university[41] = &University{
		Name:             "Київський національний університет імені Тараса Шевченка",
		ID:               "41",
		ShortName:        "КНУ ім. Тараса Шевченка",
		NameEN:           "Taras Shevchenko National University of Kyiv",
		RegistrationYear: "1834",
		TypeName:         "університет",
		RegionName:       "м. Київ",
		Faculties:        []string{"Філософський факультет", "Механіко-математичний факультет"},
		Branches: []UniversityBranch{
			{Name: "Відокремлений підрозділ", ID: "4101", RegionName: "Київська область"},
		},
		SpecialityLicenses: []SpecialityLicense{
			{SpecialityCode: "121", SpecialityName: "Інженерія програмного забезпечення", AllCount: "120"},
		},
	}

	lviv := listKey(RegionLviv, int(CategoryGeneralSecondary))
	m.institutions[lviv] = []Institution{
		{
			Name:       "Львівська гімназія №1",
			ID:         "9001",
			ShortName:  "Гімназія №1",
			RegionName: "Львівська область",
			TypeName:   "гімназія",
		},
	}

	m.schools[9001] = &Institution{
		Name:       "Львівська гімназія №1",
		ID:         "9001",
		ShortName:  "Гімназія №1",
		RegionName: "Львівська область",
		TypeName:   "гімназія",
		Boss:       "Директор",
	}
}

// AddUniversities registers a listing for a region and category.
func (m *MockServer) AddUniversities(region Region, category UniversityCategory, list []UniversityBrief) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.universities[listKey(region, int(category))] = list
}

// AddUniversity registers a detail record.
func (m *MockServer) AddUniversity(id int, u *University) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.university[id] = u
}

// AddInstitutions registers a listing for a region and category.
func (m *MockServer) AddInstitutions(region Region, category InstitutionCategory, list []Institution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.institutions[listKey(region, int(category))] = list
}

// AddSchool registers a school detail record.
func (m *MockServer) AddSchool(id int, inst *Institution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schools[id] = inst
}

// SetFailures makes the endpoint return 500 count times before recovering.
func (m *MockServer) SetFailures(endpoint string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[endpoint] = count
}

// Hits returns how many requests the endpoint has served, fault-injected
// responses included.
func (m *MockServer) Hits(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[endpoint]
}

// failNext reports whether the endpoint should fail this request and counts
// the hit either way.
func (m *MockServer) failNext(endpoint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[endpoint]++
	if m.failures[endpoint] > 0 {
		m.failures[endpoint]--
		return true
	}
	return false
}

func (m *MockServer) handleUniversities(w http.ResponseWriter, r *http.Request) {
	if m.failNext(universitiesEndpoint) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	key := r.URL.Query().Get("lc") + ":" + r.URL.Query().Get("ut")

	m.mu.Lock()
	list, ok := m.universities[key]
	m.mu.Unlock()
	if !ok {
		list = []UniversityBrief{}
	}
	writeJSON(w, list)
}

func (m *MockServer) handleUniversity(w http.ResponseWriter, r *http.Request) {
	if m.failNext(universityEndpoint) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	u, ok := m.university[id]
	m.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, u)
}

func (m *MockServer) handleInstitutions(w http.ResponseWriter, r *http.Request) {
	if m.failNext(institutionsEndpoint) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	key := r.URL.Query().Get("lc") + ":" + r.URL.Query().Get("ut")

	m.mu.Lock()
	list, ok := m.institutions[key]
	m.mu.Unlock()
	if !ok {
		list = []Institution{}
	}
	writeJSON(w, list)
}

func (m *MockServer) handleSchool(w http.ResponseWriter, r *http.Request) {
	if m.failNext(schoolEndpoint) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	inst, ok := m.schools[id]
	m.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, inst)
}

func listKey(region Region, category int) string {
	return strconv.Itoa(int(region)) + ":" + strconv.Itoa(category)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
