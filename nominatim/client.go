package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chronophylos/locfinder/location"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Defaults used by NewClient when an option is left empty.
const (
	DefaultBaseURL  = "https://nominatim.openstreetmap.org"
	DefaultLanguage = "en-US,en"
	DefaultTimeout  = 30 * time.Second

	resultLimit = 5
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration

	// RateLimit is the maximum number of requests per second. Zero disables
	// limiting.
	RateLimit float64

	Log zerolog.Logger
}

// Client issues search and reverse requests. It never returns provider
// failures to the caller; they are logged and turned into empty results.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		language:  opts.Language,
		log:       opts.Log.With().Str("component", "nominatim").Logger(),
	}

	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return c
}

// Search looks up at most five candidates for query. The caller is expected
// to suppress too short queries and to throttle bursts.
func (c *Client) Search(ctx context.Context, query string) []location.Location {
	log := c.requestLogger("search")

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprint(resultLimit))

	body, err := c.request(ctx, "/search", params)
	if err != nil {
		log.Error().
			Err(err).
			Str("query", query).
			Msg("Searching locations")
		return []location.Location{}
	}

	var places []apiPlace
	if err = json.Unmarshal(body, &places); err != nil {
		log.Error().
			Err(err).
			Str("query", query).
			Msg("Could not unmarshal search response")
		return []location.Location{}
	}

	locations := make([]location.Location, 0, len(places))
	for _, p := range places {
		locations = append(locations, newLocationFromAPI(p))
	}

	log.Debug().
		Str("query", query).
		Int("count", len(locations)).
		Msg("Found locations")

	return locations
}

// Reverse returns the place at the given coordinate, or nil if there is none
// or the request failed.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) *location.Location {
	log := c.requestLogger("reverse").With().
		Float64("lat", lat).
		Float64("lon", lon).
		Logger()

	params := url.Values{}
	params.Set("lat", location.FormatCoordinate(lat))
	params.Set("lon", location.FormatCoordinate(lon))

	body, err := c.request(ctx, "/reverse", params)
	if err != nil {
		log.Error().Err(err).Msg("Reverse geocoding")
		return nil
	}

	var place apiPlace
	if err = json.Unmarshal(body, &place); err != nil {
		log.Error().Err(err).Msg("Could not unmarshal reverse response")
		return nil
	}

	if place.Error != "" {
		log.Error().
			Str("reason", place.Error).
			Msg("Nominatim could not reverse geocode")
		return nil
	}

	loc := newLocationFromAPI(place)

	log.Debug().
		Int64("place_id", loc.PlaceID).
		Str("type", loc.Type).
		Msg("Reverse geocoded location")

	return &loc
}

func (c *Client) requestLogger(endpoint string) zerolog.Logger {
	return c.log.With().
		Str("request", uuid.NewString()).
		Str("endpoint", endpoint).
		Logger()
}

func (c *Client) request(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.language)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer resp.Body.Close()

	if err = checkResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response body")
	}

	return body, nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("got ratelimited from Nominatim")
	}
	return errors.Errorf("Nominatim returned status %d", resp.StatusCode)
}
