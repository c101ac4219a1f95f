package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-mcp/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CompilerConfig holds settings for the query compiler.
type CompilerConfig struct {
	// Model is the completion model identifier (e.g. "claude-sonnet-4-5").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single completion round trip.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// RetryBackoff is the wait before the single retry of a transient
	// completion failure (default 2s).
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff"`
}

// TransportMode selects how the find_papers tool is reached.
type TransportMode string

const (
	// TransportStdio runs the tool server as a subprocess and speaks the
	// wire protocol over its stdin/stdout.
	TransportStdio TransportMode = "stdio"

	// TransportInproc dispatches tool calls directly to the registry in
	// the same process, with no channel.
	TransportInproc TransportMode = "inproc"
)

// TransportConfig holds settings for the tool invoker.
type TransportConfig struct {
	// Mode selects stdio or inproc transport (default inproc).
	Mode TransportMode `json:"mode" yaml:"mode"`

	// ServerCommand is the command line that launches the tool server in
	// stdio mode (e.g. ["arxiv-mcp", "serve"]).
	ServerCommand []string `json:"server_command,omitempty" yaml:"server_command,omitempty"`

	// InvokeTimeout bounds a single tool invocation round trip (default 60s).
	InvokeTimeout time.Duration `json:"invoke_timeout" yaml:"invoke_timeout"`
}

// StoreConfig holds settings for the search history store.
type StoreConfig struct {
	// DataDir is the directory holding the history database (default
	// "data/"). An empty Path disables history recording.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Disabled turns off history recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// Config groups all component configurations.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Compiler  CompilerConfig  `json:"compiler" yaml:"compiler"`
	Transport TransportConfig `json:"transport" yaml:"transport"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
