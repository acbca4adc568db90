package serving

import (
	"fmt"
	"time"

	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/rescache"
	"github.com/inferlab/predictd/pkg/domain/schema"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/serving.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServingConfigMarshall struct {
	Server  *ServerConfigMarshall  `yaml:"server,omitempty"`
	Models  map[string]string      `yaml:"models"`
	Schema  *SchemaConfigMarshall  `yaml:"schema,omitempty"`
	Cache   *CacheConfigMarshall   `yaml:"cache,omitempty"`
	Auth    *AuthConfigMarshall    `yaml:"auth"`
	Logging *LoggingConfigMarshall `yaml:"logging,omitempty"`
	Monitor *MonitorConfigMarshall `yaml:"monitor,omitempty"`
}

var _ Marshalled[*ServingConfig] = &ServingConfigMarshall{}

func (m *ServingConfigMarshall) trySeal(path string) *ServingConfig {
	if len(m.Models) == 0 {
		panic(path + ".models is required")
	}
	models := make(map[string]string, len(m.Models))
	for name, modelPath := range m.Models {
		models[name] = required(modelPath, path+".models."+name)
	}

	auth := m.Auth
	if auth == nil {
		auth = &AuthConfigMarshall{}
	}

	return &ServingConfig{
		server:  m.Server.trySeal(path + ".server"),
		models:  models,
		schema:  m.Schema.trySeal(path + ".schema"),
		cache:   m.Cache.trySeal(path + ".cache"),
		auth:    auth.trySeal(path + ".auth"),
		logging: m.Logging.trySeal(path + ".logging"),
		monitor: m.Monitor.trySeal(path + ".monitor"),
	}
}

type ServerConfigMarshall struct {
	Port     int32  `yaml:"port,omitempty"`
	LogLevel string `yaml:"loglevel,omitempty"`
	Cert     string `yaml:"cert,omitempty"`
	CertKey  string `yaml:"certKey,omitempty"`
}

func (m *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	if m == nil {
		m = &ServerConfigMarshall{}
	}
	port := m.Port
	if port == 0 {
		port = 8000
	}
	loglevel := m.LogLevel
	if loglevel == "" {
		loglevel = "info"
	}
	if m.Cert != "" && m.CertKey == "" {
		panic(path + ".certKey is required")
	}
	if m.CertKey != "" && m.Cert == "" {
		panic(path + ".cert is required")
	}
	return &ServerConfig{
		port:     port,
		loglevel: loglevel,
		cert:     m.Cert,
		certkey:  m.CertKey,
	}
}

type SchemaConfigMarshall struct {
	Features []*FieldConfigMarshall `yaml:"features"`
}

func (m *SchemaConfigMarshall) trySeal(path string) schema.Schema {
	if m == nil {
		return schema.Default()
	}
	if len(m.Features) == 0 {
		panic(path + ".features is required")
	}
	features := make(schema.Schema, 0, len(m.Features))
	for i, f := range m.Features {
		fieldPath := fmt.Sprintf("%s.features[%d]", path, i)
		features = append(features, nonnil(f, fieldPath).trySeal(fieldPath))
	}
	return features
}

type FieldConfigMarshall struct {
	Name string   `yaml:"name"`
	Gt   *float64 `yaml:"gt,omitempty"`
	Lt   *float64 `yaml:"lt,omitempty"`
}

func (m *FieldConfigMarshall) trySeal(path string) schema.Field {
	return schema.Field{
		Name: required(m.Name, path+".name"),
		Gt:   m.Gt,
		Lt:   m.Lt,
	}
}

type CacheConfigMarshall struct {
	Capacity        *int   `yaml:"capacity,omitempty"`
	TTL             string `yaml:"ttl,omitempty"`
	CleanupInterval string `yaml:"cleanupInterval,omitempty"`
}

func (m *CacheConfigMarshall) trySeal(path string) *CacheConfig {
	if m == nil {
		m = &CacheConfigMarshall{}
	}
	capacity := rescache.DefaultCapacity
	if m.Capacity != nil {
		capacity = *m.Capacity
	}
	ttl := rescache.DefaultTTL
	if m.TTL != "" {
		ttl = duration(m.TTL, path+".ttl")
	}
	var cleanupInterval time.Duration
	if m.CleanupInterval != "" {
		cleanupInterval = duration(m.CleanupInterval, path+".cleanupInterval")
	}
	return &CacheConfig{
		capacity:        capacity,
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
	}
}

// DefaultWhitelist lists the routes served without an API key when the
// configuration does not choose its own set: everything but
// /predict_secure. Narrow it to guard more of the surface.
func DefaultWhitelist() []string {
	return []string{
		"/health",
		"/models",
		"/predict/:model_name",
		"/monitoring",
		"/metrics",
	}
}

type AuthConfigMarshall struct {
	Header string `yaml:"header,omitempty"`

	// Key is the expected API key. Prefer passing it by KeyFile or
	// the PREDICTD_API_KEY environment variable over writing it here.
	// Without a key, guarded routes reject every caller.
	Key string `yaml:"key,omitempty"`

	// KeyFile is a file holding the expected API key.
	KeyFile string `yaml:"keyFile,omitempty"`

	// Whitelist lists route patterns served without a key.
	// Omitted (not empty) whitelist defaults to DefaultWhitelist.
	Whitelist []string `yaml:"whitelist,omitempty"`
}

func (m *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	header := m.Header
	if header == "" {
		header = "X-API-Key"
	}
	whitelist := m.Whitelist
	if whitelist == nil {
		whitelist = DefaultWhitelist()
	}
	return &AuthConfig{
		header:    header,
		key:       m.Key,
		whitelist: whitelist,
	}
}

type LoggingConfigMarshall struct {
	Buffer   int                     `yaml:"buffer,omitempty"`
	File     string                  `yaml:"file,omitempty"`
	NATS     *NATSSinkConfigMarshall `yaml:"nats,omitempty"`
	Postgres string                  `yaml:"postgres,omitempty"`
}

func (m *LoggingConfigMarshall) trySeal(path string) *LoggingConfig {
	if m == nil {
		m = &LoggingConfigMarshall{}
	}
	buffer := m.Buffer
	if buffer <= 0 {
		buffer = predlog.DefaultBufferSize
	}
	return &LoggingConfig{
		buffer:   buffer,
		file:     m.File,
		nats:     m.NATS.trySeal(path + ".nats"),
		postgres: m.Postgres,
	}
}

type NATSSinkConfigMarshall struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject,omitempty"`
}

func (m *NATSSinkConfigMarshall) trySeal(path string) *NATSSinkConfig {
	if m == nil {
		return nil
	}
	subject := m.Subject
	if subject == "" {
		subject = "predictd.predictions"
	}
	return &NATSSinkConfig{
		url:     required(m.URL, path+".url"),
		subject: subject,
	}
}

type MonitorConfigMarshall struct {
	Window    int                        `yaml:"window,omitempty"`
	Reference map[string]monitor.Profile `yaml:"reference,omitempty"`
}

func (m *MonitorConfigMarshall) trySeal(path string) *MonitorConfig {
	if m == nil {
		m = &MonitorConfigMarshall{}
	}
	window := m.Window
	if window <= 0 {
		window = monitor.DefaultWindowSize
	}
	reference := m.Reference
	if len(reference) == 0 {
		reference = monitor.IrisReference()
	}
	return &MonitorConfig{
		window:    window,
		reference: reference,
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func duration(v string, path string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	return d
}
