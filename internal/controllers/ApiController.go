package controllers

import (
	"bikeprice/internal/display"
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"bikeprice/internal/registry"
	"bikeprice/internal/services"
	"bikeprice/internal/snapshot"
	"bikeprice/internal/structures"
	json "github.com/goccy/go-json"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CDN headers carrying the visitor's ISO country code, in lookup order.
var geoHeaders = []string{"X-Country-Code", "CF-IPCountry", "CloudFront-Viewer-Country", "X-Nf-Country"}

type ApiController struct {
	logger   providers.Logger
	service  services.PricingServiceInterface
	registry registry.RegistryInterface
	cache    providers.CacheProviderInterface
	display  structures.DisplayConfig

	// The full snapshot outgrows freecache's per-entry limit, so its
	// encoding is kept here per version.
	snapshotMu sync.Mutex
	encoded    *encodedSnapshot
}

type encodedSnapshot struct {
	version uint64
	data    []byte
}

func NewApiController(logger providers.Logger, service services.PricingServiceInterface, reg registry.RegistryInterface, cache providers.CacheProviderInterface, conf *structures.Config) *ApiController {
	return &ApiController{
		logger:   logger,
		service:  service,
		registry: reg,
		cache:    cache,
		display:  conf.Display,
	}
}

type cityListResponse struct {
	Countries      []registry.CountryGroup `json:"countries"`
	DefaultCountry string                  `json:"defaultCountry"`
	DefaultCity    string                  `json:"defaultCity"`
}

type closestCityResponse struct {
	City    string         `json:"city"`
	Country models.Country `json:"country"`
}

type geoResponse struct {
	CountryCode *string `json:"countryCode"`
	CountryName *string `json:"countryName"`
	DefaultCity string  `json:"defaultCity"`
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	writeJSON(w, status, data)
}

// Cache keys carry the snapshot version, so a new snapshot never serves stale
// views.
func (ac *ApiController) cacheKey(key string) string {
	return "v" + strconv.FormatUint(ac.service.Version(), 10) + ":" + key
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, key string, compute func() ([]byte, error)) {
	cacheKey := ac.cacheKey(key)
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	data, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeHTTP, "Render %s: %s", key, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, data)
	writeJSON(w, http.StatusOK, data)
}

// GetSnapshot serves the current snapshot in the same layout as the file.
func (ac *ApiController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := ac.snapshotBytes()
	if err != nil {
		ac.logger.Errorf(providers.TypeHTTP, "Render snapshot: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// The version is read before the snapshot. A Put in between stores newer
// data under the older version, which the next request re-encodes.
func (ac *ApiController) snapshotBytes() ([]byte, error) {
	ac.snapshotMu.Lock()
	defer ac.snapshotMu.Unlock()

	version := ac.service.Version()
	if ac.encoded != nil && ac.encoded.version == version {
		return ac.encoded.data, nil
	}

	data, err := snapshot.Encode(ac.service.Current())
	if err != nil {
		return nil, err
	}
	ac.encoded = &encodedSnapshot{version: version, data: data}
	return data, nil
}

func (ac *ApiController) GetCities(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "cities", func() ([]byte, error) {
		return json.Marshal(cityListResponse{
			Countries:      ac.registry.GroupByCountry(),
			DefaultCountry: ac.display.DefaultCountry,
			DefaultCity:    ac.display.DefaultCity,
		})
	})
}

func (ac *ApiController) GetClosestCity(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}

	city, ok := ac.registry.Closest(lat, lng)
	if !ok {
		writeError(w, http.StatusNotFound, "no city has coordinates")
		return
	}
	data, err := json.Marshal(closestCityResponse{City: city.Name, Country: city.Country()})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetCity renders one city's pricing. Unknown cities get a view carrying the
// not-found message with a 404.
func (ac *ApiController) GetCity(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = ac.display.DefaultCity
	}

	if city, ok := ac.registry.Find(name); ok {
		name = city.Name
	}

	pricing := ac.service.Current()[name]
	if pricing == nil {
		data, err := json.Marshal(ac.cityView(name, nil))
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusNotFound, data)
		return
	}

	ac.serveFromCacheOrCompute(w, "city:"+name, func() ([]byte, error) {
		return json.Marshal(ac.cityView(name, pricing))
	})
}

func (ac *ApiController) cityView(name string, pricing *models.CityPricing) display.CityView {
	view := display.BuildCityView(name, pricing)
	if city, ok := ac.registry.Find(name); ok {
		view.Country = string(city.Country())
	}
	return view
}

// GetGeo reports the visitor's country from CDN headers and the city the
// page should open with.
func (ac *ApiController) GetGeo(w http.ResponseWriter, r *http.Request) {
	resp := geoResponse{DefaultCity: ac.display.DefaultCity}

	if code := countryCode(r); code != "" {
		resp.CountryCode = &code
		if country := models.CountryFromCode(code); country != models.CountryUnknown {
			name := string(country)
			resp.CountryName = &name
			if city, ok := ac.registry.DefaultFor(country); ok {
				resp.DefaultCity = city.Name
			}
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func countryCode(r *http.Request) string {
	for _, h := range geoHeaders {
		v := strings.ToUpper(strings.TrimSpace(r.Header.Get(h)))
		if len(v) == 2 && v != "XX" {
			return v
		}
	}
	return ""
}
