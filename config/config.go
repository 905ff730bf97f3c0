// Package config holds the application-wide settings consumed by the
// responder, the JSONP decorators and the router. Values are plain structs so
// they can be built in code or loaded from YAML; absent keys keep defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultStatusField is the key injected into JSON mappings when status
// injection is enabled.
const DefaultStatusField = "status"

// DefaultQueryCallbacks lists the query parameters inspected for a JSONP
// callback name, in order.
var DefaultQueryCallbacks = []string{"callback", "jsonp"}

// Config groups every section understood by the module.
type Config struct {
	JSON  JSON  `yaml:"json"`
	JSONP JSONP `yaml:"jsonp"`
	HTTP  HTTP  `yaml:"http"`
}

// JSON controls how response bodies are encoded.
type JSON struct {
	// AddStatus injects the HTTP status into mapping responses.
	AddStatus bool `yaml:"add_status"`
	// StatusField names the injected key.
	StatusField string `yaml:"status_field"`
	// TimeFormat, DateFormat and DateTimeFormat are Go layouts. Empty values
	// select ISO-8601.
	TimeFormat     string `yaml:"time_format"`
	DateFormat     string `yaml:"date_format"`
	DateTimeFormat string `yaml:"datetime_format"`
	// UseEncodeMethods enables AsJSON/ForJSON capability methods.
	UseEncodeMethods bool `yaml:"use_encode_methods"`
	PrettyPrint      bool `yaml:"pretty_print"`
}

// JSONP controls callback negotiation.
type JSONP struct {
	// StringQuotes quotes and escapes textual payloads before interpolation.
	StringQuotes bool `yaml:"string_quotes"`
	// Optional renders plain JSON when no callback parameter is present.
	Optional       bool     `yaml:"optional"`
	QueryCallbacks []string `yaml:"query_callbacks"`
}

// HTTP configures the router middleware chain.
type HTTP struct {
	Timeout         time.Duration `yaml:"timeout"`
	CORS            CORS          `yaml:"cors"`
	QuietdownRoutes []string      `yaml:"quietdown_routes"`
	HideHeaders     []string      `yaml:"hide_headers"`
}

// CORS lists the cross-origin settings applied by the router.
type CORS struct {
	Origins          []string `yaml:"origins"`
	Methods          []string `yaml:"methods"`
	Headers          []string `yaml:"headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		JSON: JSON{
			AddStatus:   true,
			StatusField: DefaultStatusField,
		},
		JSONP: JSONP{
			StringQuotes:   true,
			Optional:       true,
			QueryCallbacks: cloneStrings(DefaultQueryCallbacks),
		},
		HTTP: HTTP{
			Timeout: 30 * time.Second,
		},
	}
}

// Load decodes YAML from r on top of Default. An empty document yields the
// defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg.Normalize(), nil
}

// LoadFile reads the YAML document stored at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Normalize fills blank values that have no meaningful zero value and returns
// a copy that shares no slices with c.
func (c Config) Normalize() Config {
	if c.JSON.StatusField == "" {
		c.JSON.StatusField = DefaultStatusField
	}
	if len(c.JSONP.QueryCallbacks) == 0 {
		c.JSONP.QueryCallbacks = DefaultQueryCallbacks
	}
	c.JSONP.QueryCallbacks = cloneStrings(c.JSONP.QueryCallbacks)
	c.HTTP.QuietdownRoutes = cloneStrings(c.HTTP.QuietdownRoutes)
	c.HTTP.HideHeaders = cloneStrings(c.HTTP.HideHeaders)
	c.HTTP.CORS.Origins = cloneStrings(c.HTTP.CORS.Origins)
	c.HTTP.CORS.Methods = cloneStrings(c.HTTP.CORS.Methods)
	c.HTTP.CORS.Headers = cloneStrings(c.HTTP.CORS.Headers)
	return c
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
