package config

import (
	"flag"
	"os"
	"time"

	"github.com/lockzilla/lockzilla/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-l int      session validity, minutes
//	-t int      API access token validity, minutes
//	-b string   breach corpus range endpoint
//	-w int      breach check timeout, seconds
//	-x          treat a known-exposed secret as a hard rejection
//	-m string   mail relay endpoint
//	-k string   mail relay API key
//	-h string   mail relay API host
//	-r string   mail reply-to address
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-l", "-t", "-b", "-w", "-x", "-m", "-k", "-h", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("l", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.BreachAPIEndpoint, "b", config.BreachAPIEndpoint, "breach corpus range endpoint")
	breachTimeout := fs.Int("w", int(config.BreachCheckTimeout.Seconds()), "breach check timeout (in seconds)")
	fs.BoolVar(&config.BreachHardBlock, "x", config.BreachHardBlock, "reject known-exposed secrets")

	fs.StringVar(&config.MailAPIEndpoint, "m", config.MailAPIEndpoint, "mail relay endpoint")
	fs.StringVar(&config.MailAPIKey, "k", config.MailAPIKey, "mail relay API key")
	fs.StringVar(&config.MailAPIHost, "h", config.MailAPIHost, "mail relay API host")
	fs.StringVar(&config.MailReplyTo, "r", config.MailReplyTo, "mail reply-to address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.BreachCheckTimeout = time.Duration(*breachTimeout) * time.Second
}
