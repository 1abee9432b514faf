package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lockzilla/lockzilla/internal/flagx"
	"github.com/lockzilla/lockzilla/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30s" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SessionValidityDuration     timex.Duration `json:"session_validity_duration"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BreachAPIEndpoint           string         `json:"breach_api_endpoint"`
	BreachCheckTimeout          timex.Duration `json:"breach_check_timeout"`
	BreachHardBlock             bool           `json:"breach_hard_block"`
	MailAPIEndpoint             string         `json:"mail_api_endpoint"`
	MailAPIKey                  string         `json:"mail_api_key"`
	MailAPIHost                 string         `json:"mail_api_host"`
	MailReplyTo                 string         `json:"mail_reply_to"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.BreachAPIEndpoint = c.BreachAPIEndpoint
	config.BreachCheckTimeout = time.Duration(c.BreachCheckTimeout.Duration)
	config.BreachHardBlock = c.BreachHardBlock
	config.MailAPIEndpoint = c.MailAPIEndpoint
	config.MailAPIKey = c.MailAPIKey
	config.MailAPIHost = c.MailAPIHost
	config.MailReplyTo = c.MailReplyTo
}
