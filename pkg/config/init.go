package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# libremotec Configuration File
#
# Every key can be overridden with an environment variable named after it,
# e.g. LIBREMOTEC_CLIENT_MAX_OPEN=32. REMOTE_SERVER and LOCAL_PATHS are
# accepted for transport.tcp.host and client.local_paths.

`

// sectionComments are attached to the top-level keys of a generated file.
var sectionComments = map[string]string{
	"logging":   "Logging: level is DEBUG, INFO, WARN or ERROR. DEBUG traces every\nrouting decision and remote call. output is stdout, stderr or a file path.",
	"transport": "Transport: type selects tcp or unix. The client dials tcp.host:tcp.port;\nthe server binds all interfaces on tcp.port.",
	"client":    "Client: local_paths is a colon separated list of prefixes that stay on\nthis host. cwd_policy is server, caller or reject.",
	"server":    "Server: max_read_size clamps read and getxattr replies, in bytes.\nrate_limit.calls_per_second throttles the session (0 = unlimited).",
}

// InitConfig writes a sample configuration file to the default location
// and returns its path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file to path, creating
// parent directories as needed.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	content, err := generateYAMLWithComments(GetDefaultConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateYAMLWithComments renders cfg as YAML with a comment above each
// section.
func generateYAMLWithComments(cfg *Config) (string, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		if comment, ok := sectionComments[key.Value]; ok {
			key.HeadComment = comment
		}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
