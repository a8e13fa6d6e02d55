package server

import (
	"os"

	"github.com/woped/bpmn-pnml-transformer/errs"
)

// Config holds the environment-driven settings of the HTTP service.
type Config struct {
	// Port the server binds to, without colon.
	Port string
	// CheckTokenURL is the token-check collaborator endpoint; empty disables
	// the check (local development).
	CheckTokenURL string
	// ForceStdXML mirrors the FORCE_STD_XML toggle. Its absence is a startup
	// error.
	ForceStdXML string
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	forceStdXML, ok := os.LookupEnv("FORCE_STD_XML")
	if !ok {
		return nil, errs.MissingEnvironmentVariable("FORCE_STD_XML")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &Config{
		Port:          port,
		CheckTokenURL: os.Getenv("CHECK_TOKEN_URL"),
		ForceStdXML:   forceStdXML,
	}, nil
}
