package config

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "mrpctl.yaml"

// Config is the mrpctl configuration.
type Config struct {
	// URL is the provisioner base URL, e.g. http://192.168.0.3:5000.
	URL string `yaml:"url"`

	// Token is the provisioner API token, sent verbatim in the
	// Authorization header.
	Token string `yaml:"token"`

	S3  S3Config  `yaml:"s3,omitempty"`
	Log LogConfig `yaml:"log,omitempty"`
}

// S3Config holds credentials for s3:// artifact references. Empty values
// fall back to the AWS default credential chain.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}

// Overrides are values supplied on the command line. Empty strings and nil
// pointers leave the configured value alone.
type Overrides struct {
	URL      string
	Token    string
	LogLevel string
	LogJSON  *bool
}

// ApplyOverrides applies command-line values.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.URL != "" {
		c.URL = o.URL
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogJSON != nil {
		c.Log.JSON = *o.LogJSON
	}
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() Config {
	out := *c
	if out.Token != "" {
		out.Token = "***"
	}
	if out.S3.SecretKey != "" {
		out.S3.SecretKey = "***"
	}
	return out
}
