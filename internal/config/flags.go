package config

import (
	"flag"
	"io"
	"strings"
	"time"
)

// parseFlagsFrom parses configuration flags from args.
//
// Flags:
//
//	-registry-id entry registry object id
//	-policy-package-id seal policy package id
//	-key-servers comma-separated key server base URLs
//	-threshold minimum key-server shares required to decrypt
//	-aggregator-url blob store read endpoint
//	-publisher-url blob store write endpoint
//	-epochs storage epochs per uploaded blob
//	-request-timeout blob store request timeout (e.g., "30s", "1m")
//	-session-ttl capability lifetime (e.g., "10m")
//	-renewal-threshold lead time before expiry for renewal (e.g., "2m")
//	-c/-config json file path with configs
//
// A dedicated flag set is used instead of the global one so embedding
// applications keep full control of flag.CommandLine.
func parseFlagsFrom(args []string) (*ClientConfig, error) {
	var registryID string
	var policyPackageID string
	var keyServers string
	var threshold int
	var aggregatorURL string
	var publisherURL string
	var epochs int
	var requestTimeout time.Duration
	var sessionTTL time.Duration
	var renewalThreshold time.Duration
	var jsonConfigPath string

	fs := flag.NewFlagSet("pocketsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&registryID, "registry-id", "", "Entry registry object id")
	fs.StringVar(&policyPackageID, "policy-package-id", "", "Seal policy package id")
	fs.StringVar(&keyServers, "key-servers", "", "Comma-separated key server base URLs")
	fs.IntVar(&threshold, "threshold", 0, "Minimum key-server shares required to decrypt")
	fs.StringVar(&aggregatorURL, "aggregator-url", "", "Blob store read endpoint")
	fs.StringVar(&publisherURL, "publisher-url", "", "Blob store write endpoint")
	fs.IntVar(&epochs, "epochs", 0, "Storage epochs per uploaded blob")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Blob store request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&sessionTTL, "session-ttl", 0, "Capability lifetime (e.g., 10m)")
	fs.DurationVar(&renewalThreshold, "renewal-threshold", 0, "Renewal lead time before expiry (e.g., 2m)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &ClientConfig{
		Ledger: Ledger{
			RegistryID:      registryID,
			PolicyPackageID: policyPackageID,
		},
		Seal: Seal{
			KeyServerURLs: splitServerList(keyServers),
			Threshold:     threshold,
		},
		Store: Store{
			AggregatorURL:  aggregatorURL,
			PublisherURL:   publisherURL,
			StorageEpochs:  epochs,
			RequestTimeout: requestTimeout,
		},
		Session: Session{
			TTL:              sessionTTL,
			RenewalThreshold: renewalThreshold,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitServerList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
