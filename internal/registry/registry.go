package registry

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"bikeprice/internal/structures"
	_ "embed"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"os"
	"strings"
)

//go:embed cities.json
var defaultCities []byte

type RegistryInterface interface {
	Cities() []models.City
	Find(name string) (models.City, bool)
	GroupByCountry() []CountryGroup
	Closest(lat, lng float64) (models.City, bool)
	DefaultFor(country models.Country) (models.City, bool)
	Len() int
}

type CountryGroup struct {
	Country models.Country `json:"country"`
	Cities  []string       `json:"cities"`
}

// Registry is the immutable list of configured cities, kept in file order.
type Registry struct {
	cities []models.City
	byName map[string]int
}

func New(cities []models.City) (*Registry, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("city registry is empty")
	}
	r := &Registry{
		cities: make([]models.City, len(cities)),
		byName: make(map[string]int, len(cities)),
	}
	for i, city := range cities {
		v := validate.Struct(&city)
		if !v.Validate() {
			return nil, fmt.Errorf("city #%d (%s): %s", i, city.Name, v.Errors.One())
		}
		if _, dup := r.byName[city.Name]; dup {
			return nil, fmt.Errorf("city %q listed twice", city.Name)
		}
		r.cities[i] = city
		r.byName[city.Name] = i
	}
	return r, nil
}

func Parse(data []byte) (*Registry, error) {
	var cities []models.City
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("decode city registry: %w", err)
	}
	return New(cities)
}

// Default returns the built-in city list.
func Default() (*Registry, error) {
	return Parse(defaultCities)
}

// Load reads a registry file, or the built-in list when path is empty. Any
// failure is fatal for a generation run.
func Load(path string) (*Registry, error) {
	if path == "" {
		r, err := Default()
		if err != nil {
			return nil, models.FatalError(err, "built-in city registry is invalid")
		}
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.FatalError(err, "city registry %s unreadable", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, models.FatalError(err, "city registry %s invalid", path)
	}
	return r, nil
}

func NewRegistryProvider(conf *structures.Config, logger providers.Logger) (RegistryInterface, error) {
	r, err := Load(conf.Registry.FilePath)
	if err != nil {
		return nil, err
	}
	source := conf.Registry.FilePath
	if source == "" {
		source = "built-in list"
	}
	logger.Infof(providers.TypeApp, "Loaded %d cities from %s", r.Len(), source)
	return r, nil
}

func (r *Registry) Cities() []models.City {
	out := make([]models.City, len(r.cities))
	copy(out, r.cities)
	return out
}

func (r *Registry) Len() int {
	return len(r.cities)
}

// Find matches the exact display name first, then case-insensitively.
func (r *Registry) Find(name string) (models.City, bool) {
	if i, ok := r.byName[name]; ok {
		return r.cities[i], true
	}
	for _, c := range r.cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return models.City{}, false
}

// GroupByCountry keeps first-seen country order and registry order within a country.
func (r *Registry) GroupByCountry() []CountryGroup {
	var groups []CountryGroup
	index := make(map[models.Country]int)
	for _, c := range r.cities {
		country := c.Country()
		i, ok := index[country]
		if !ok {
			i = len(groups)
			index[country] = i
			groups = append(groups, CountryGroup{Country: country})
		}
		groups[i].Cities = append(groups[i].Cities, c.Name)
	}
	return groups
}

// DefaultFor returns the first registered city of a country.
func (r *Registry) DefaultFor(country models.Country) (models.City, bool) {
	for _, c := range r.cities {
		if c.Country() == country {
			return c, true
		}
	}
	return models.City{}, false
}

func (r *Registry) Closest(lat, lng float64) (models.City, bool) {
	var (
		best     models.City
		bestDist = -1.0
	)
	for _, c := range r.cities {
		cLat, cLng, ok := c.Location()
		if !ok {
			continue
		}
		d := Haversine(lat, lng, cLat, cLng)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
