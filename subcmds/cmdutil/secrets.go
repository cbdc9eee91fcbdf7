// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bvk/gridctl/notify"
)

// Secrets holds optional, sensitive configuration kept outside the
// database in the data directory.
type Secrets struct {
	// APIURL overrides the backend base URL when neither the flag nor
	// the environment variable is set.
	APIURL string `json:"api_url,omitempty"`

	Telegram *notify.Secrets `json:"telegram,omitempty"`
}

func SecretsFromFile(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("could not parse secrets file %q: %w", path, err)
	}
	return s, nil
}

func (s *Secrets) WriteFile(path string) error {
	js, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, js, os.FileMode(0600)); err != nil {
		return fmt.Errorf("could not write secrets file %q: %w", path, err)
	}
	return nil
}

// Notifier creates the Telegram notifier when configured. A nil client
// is valid and sends nothing.
func (s *Secrets) Notifier() *notify.Client {
	if s == nil || s.Telegram == nil {
		return nil
	}
	client, err := notify.New(s.Telegram)
	if err != nil {
		return nil
	}
	return client
}
