package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so that JSON config files can express
// durations as human-readable strings ("10m", "30s") or raw nanoseconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler for [Duration].
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

// clientJSONConfig mirrors [ClientConfig] with JSON tags and
// string-friendly durations for config files.
type clientJSONConfig struct {
	Ledger struct {
		RegistryID      string `json:"registry_id"`
		PolicyPackageID string `json:"policy_package_id"`
	} `json:"ledger,omitempty"`

	Seal struct {
		KeyServers []string `json:"key_servers"`
		Threshold  int      `json:"threshold"`
	} `json:"seal,omitempty"`

	Store struct {
		AggregatorURL  string   `json:"aggregator_url"`
		PublisherURL   string   `json:"publisher_url"`
		StorageEpochs  int      `json:"epochs"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"store,omitempty"`

	Session struct {
		TTL              Duration `json:"ttl"`
		RenewalThreshold Duration `json:"renewal_threshold"`
	} `json:"session,omitempty"`
}

func parseJSON(jsonFilePath string) (*ClientConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg clientJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &ClientConfig{
		Ledger: Ledger{
			RegistryID:      jsonCfg.Ledger.RegistryID,
			PolicyPackageID: jsonCfg.Ledger.PolicyPackageID,
		},
		Seal: Seal{
			KeyServerURLs: jsonCfg.Seal.KeyServers,
			Threshold:     jsonCfg.Seal.Threshold,
		},
		Store: Store{
			AggregatorURL:  jsonCfg.Store.AggregatorURL,
			PublisherURL:   jsonCfg.Store.PublisherURL,
			StorageEpochs:  jsonCfg.Store.StorageEpochs,
			RequestTimeout: time.Duration(jsonCfg.Store.RequestTimeout),
		},
		Session: Session{
			TTL:              time.Duration(jsonCfg.Session.TTL),
			RenewalThreshold: time.Duration(jsonCfg.Session.RenewalThreshold),
		},
	}

	return cfg, nil
}
