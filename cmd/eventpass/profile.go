package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventpass/eventpass-go/internal/config"
	"gopkg.in/yaml.v3"
)

// Profile is the optional on-disk CLI configuration. Flags and env override
// it; everything has a sensible default.
type Profile struct {
	APIURL        string `yaml:"api_url"`
	CredentialDir string `yaml:"credential_dir"`
}

func loadProfile(path string, cfg config.Config) (*Profile, error) {
	profile := &Profile{
		APIURL:        cfg.GetBaseURL(),
		CredentialDir: cfg.GetCredentialDir(),
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.GetCredentialDir(), "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("reading profile %s: %w", path, err)
		}
		return profile, nil
	}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if profile.APIURL == "" {
		profile.APIURL = cfg.GetBaseURL()
	}
	if profile.CredentialDir == "" {
		profile.CredentialDir = cfg.GetCredentialDir()
	}
	return profile, nil
}
