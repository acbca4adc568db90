package serving

import (
	"time"

	"github.com/inferlab/predictd/pkg/domain/monitor"
	"github.com/inferlab/predictd/pkg/domain/schema"
)

// ServingConfig is the sealed configuration of the prediction server.
//
// to get a `ServingConfig` instance, use `LoadServingConfig` or
// `TrySeal` on a `ServingConfigMarshall`.
type ServingConfig struct {
	server  *ServerConfig
	models  map[string]string
	schema  schema.Schema
	cache   *CacheConfig
	auth    *AuthConfig
	logging *LoggingConfig
	monitor *MonitorConfig
}

func (c *ServingConfig) Server() *ServerConfig {
	return c.server
}

// Model file paths by model name.
func (c *ServingConfig) Models() map[string]string {
	models := make(map[string]string, len(c.models))
	for name, path := range c.models {
		models[name] = path
	}
	return models
}

// Input schema shared by all served models.
func (c *ServingConfig) Schema() schema.Schema {
	return append(schema.Schema{}, c.schema...)
}

func (c *ServingConfig) Cache() *CacheConfig {
	return c.cache
}

func (c *ServingConfig) Auth() *AuthConfig {
	return c.auth
}

func (c *ServingConfig) Logging() *LoggingConfig {
	return c.logging
}

func (c *ServingConfig) Monitor() *MonitorConfig {
	return c.monitor
}

type ServerConfig struct {
	port     int32
	loglevel string
	cert     string
	certkey  string
}

func (s *ServerConfig) Port() int32 {
	return s.port
}

// Log level of the server. default = "info"
func (s *ServerConfig) LogLevel() string {
	return s.loglevel
}

// TLS certificate file. Empty means plain HTTP.
func (s *ServerConfig) Cert() string {
	return s.cert
}

// TLS key file. Set if and only if Cert is set.
func (s *ServerConfig) CertKey() string {
	return s.certkey
}

type CacheConfig struct {
	capacity        int
	ttl             time.Duration
	cleanupInterval time.Duration
}

// How many results the cache may hold. 0 means unbounded.
func (c *CacheConfig) Capacity() int {
	return c.capacity
}

func (c *CacheConfig) TTL() time.Duration {
	return c.ttl
}

// How often expired entries are swept. 0 leaves it to the cache.
func (c *CacheConfig) CleanupInterval() time.Duration {
	return c.cleanupInterval
}

type AuthConfig struct {
	header    string
	key       string
	whitelist []string
}

// Request header carrying the API key. default = "X-API-Key"
func (a *AuthConfig) Header() string {
	return a.header
}

// The expected API key. Empty means no caller can pass the guard.
func (a *AuthConfig) Key() string {
	return a.key
}

// Route patterns served without a key. default = every route but
// /predict_secure
func (a *AuthConfig) Whitelist() []string {
	return append([]string{}, a.whitelist...)
}

type LoggingConfig struct {
	buffer   int
	file     string
	nats     *NATSSinkConfig
	postgres string
}

// Records the recorder queue may hold before dropping.
func (l *LoggingConfig) Buffer() int {
	return l.buffer
}

// JSON Lines file for prediction records. "-" means stdout,
// empty means no file sink.
func (l *LoggingConfig) File() string {
	return l.file
}

// NATS sink. nil means no NATS sink.
func (l *LoggingConfig) NATS() *NATSSinkConfig {
	return l.nats
}

// Connection string for the postgres sink. Empty means no postgres sink.
func (l *LoggingConfig) Postgres() string {
	return l.postgres
}

type NATSSinkConfig struct {
	url     string
	subject string
}

func (n *NATSSinkConfig) URL() string {
	return n.url
}

// Subject prediction records are published on.
// default = "predictd.predictions"
func (n *NATSSinkConfig) Subject() string {
	return n.subject
}

type MonitorConfig struct {
	window    int
	reference map[string]monitor.Profile
}

func (m *MonitorConfig) Window() int {
	return m.window
}

// Per-feature training statistics drift is measured against.
// default = the iris training set profile
func (m *MonitorConfig) Reference() map[string]monitor.Profile {
	reference := make(map[string]monitor.Profile, len(m.reference))
	for name, profile := range m.reference {
		reference[name] = profile
	}
	return reference
}
