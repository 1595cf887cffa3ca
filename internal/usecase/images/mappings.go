package images

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mappings is flat associative configuration for local image resolution:
// keyword → candidate prefixes and category → fallback prefixes. Data, not
// logic — new domain keywords need no code change.
type Mappings struct {
	Keywords   map[string][]string `yaml:"keywords"`
	Categories map[string][]string `yaml:"categories"`
}

// LoadMappings reads mappings from a YAML file. An empty path returns the
// built-in tables.
func LoadMappings(path string) (Mappings, error) {
	if path == "" {
		return DefaultMappings(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Mappings{}, fmt.Errorf("failed to read mappings %s: %w", path, err)
	}

	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mappings{}, fmt.Errorf("failed to parse mappings: %w", err)
	}
	if m.Keywords == nil {
		m.Keywords = map[string][]string{}
	}
	if m.Categories == nil {
		m.Categories = map[string][]string{}
	}
	return m, nil
}

// DefaultMappings returns the built-in keyword and category tables covering
// the catalog's stock subjects.
func DefaultMappings() Mappings {
	return Mappings{
		Keywords: map[string][]string{
			// Locations
			"teide":      {"teide"},
			"anaga":      {"anaga"},
			"masca":      {"masca-valley", "masca"},
			"adeje":      {"adeje"},
			"garachico":  {"garachico"},
			"santa cruz": {"santacruz"},
			"puerto":     {"puerto"},
			"la laguna":  {"la-laguna"},
			"la palma":   {"lapalma"},
			"la gomera":  {"gomera"},
			"el hierro":  {"elhierro"},

			// Activities
			"whale":           {"dolphins"},
			"dolphin":         {"dolphins"},
			"delfin":          {"dolphins"},
			"balena":          {"dolphins"},
			"osservazione":    {"dolphins"},
			"avvistamento":    {"dolphins"},
			"siam":            {"siam-park"},
			"parco acquatico": {"siam-park"},
			"water park":      {"siam-park"},
			"loro parque":     {"loro-parque"},
			"pappagallo":      {"loro-parque"},
			"zoo":             {"loro-parque"},
			"parapendio":      {"parapendio"},
			"paragliding":     {"parapendio"},
			"quad":            {"quad"},
			"mtb":             {"mtb"},
			"mountain bike":   {"mtb"},
			"bici":            {"mtb"},
			"escursion":       {"hiking", "anaga", "teide"},
			"trekking":        {"hiking", "anaga"},
			"hiking":          {"hiking", "anaga"},
			"cammino":         {"hiking", "anaga"},

			// Food & Culture
			"ristorante":  {"eat"},
			"cibo":        {"eat"},
			"cucina":      {"eat"},
			"food":        {"eat"},
			"gastronomia": {"eat"},
			"vino":        {"vitigni"},
			"wine":        {"vitigni"},
			"vigna":       {"vitigni"},
			"carneval":    {"carneval"},
			"carnevale":   {"carneval"},
			"festa":       {"carneval"},

			// Beach & Water
			"spiaggia": {"playa"},
			"beach":    {"playa"},
			"playa":    {"playa"},
			"mare":     {"playa", "dolphins"},
			"ocean":    {"playa", "dolphins"},

			// Family & Kids
			"bambini":  {"kidsactivity", "loro-parque", "siam-park"},
			"famiglia": {"kidsactivity", "loro-parque", "siam-park"},
			"kids":     {"kidsactivity", "loro-parque", "siam-park"},
			"children": {"kidsactivity", "loro-parque", "siam-park"},

			// Accommodation
			"hotel":         {"villa"},
			"alloggio":      {"villa"},
			"villa":         {"villa"},
			"accommodation": {"villa"},
		},
		Categories: map[string][]string{
			"avventura":    {"hiking", "parapendio", "quad"},
			"natura":       {"anaga", "teide", "hiking"},
			"acqua":        {"playa", "dolphins", "siam-park"},
			"mare":         {"playa", "dolphins"},
			"cultura":      {"santacruz", "la-laguna", "carneval"},
			"relax":        {"playa", "villa"},
			"divertimento": {"siam-park", "loro-parque", "kidsactivity"},
			"mirador":      {"teide", "anaga"},
			"tramonto":     {"teide", "playa", "anaga"},
			"adventure":    {"hiking", "parapendio", "quad"},
			"nature":       {"anaga", "teide", "hiking"},
			"water":        {"playa", "dolphins", "siam-park"},
			"culture":      {"santacruz", "la-laguna", "carneval"},
			"fun":          {"siam-park", "loro-parque", "kidsactivity"},
			"sunset":       {"teide", "playa", "anaga"},
		},
	}
}
