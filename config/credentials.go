package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Credential is a single provider API key entry.
type Credential struct {
	APIKey string `json:"api_key"`
}

// CredentialSet holds the ordered provider credentials loaded once at
// service start. Order is failover order: the first entry is the primary
// key, the rest are pure backups. Immutable for the process lifetime.
type CredentialSet struct {
	byProvider map[string][]Credential
}

// credentialGroup mirrors one entry of the config file's "credentials"
// array. Only the gemini section is required; the others are optional.
type credentialGroup struct {
	Gemini    []Credential `json:"gemini_credentials"`
	OpenAI    []Credential `json:"openai_credentials"`
	DeepSeek  []Credential `json:"deepseek_credentials"`
	Anthropic []Credential `json:"anthropic_credentials"`
}

type credentialsFile struct {
	Credentials []credentialGroup `json:"credentials"`
}

// For returns the ordered credentials for a provider name.
func (s CredentialSet) For(provider string) []Credential {
	return s.byProvider[provider]
}

// Empty reports whether no provider has any usable credential.
func (s CredentialSet) Empty() bool {
	for _, creds := range s.byProvider {
		if len(creds) > 0 {
			return false
		}
	}
	return true
}

// LoadCredentials reads the credential file. A missing or malformed file
// yields an empty set: the service still starts, but every request fails
// with the exhausted-failure error. Entries without a usable api_key are
// filtered out here, never at use time.
func LoadCredentials(path string, logger zerolog.Logger) CredentialSet {
	set := CredentialSet{byProvider: make(map[string][]Credential)}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info().Str("path", path).Msg("no existing config file found")
		return set
	}

	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("error reading config file")
		return set
	}

	for _, group := range file.Credentials {
		set.byProvider["gemini"] = append(set.byProvider["gemini"], validOnly(group.Gemini)...)
		set.byProvider["openai"] = append(set.byProvider["openai"], validOnly(group.OpenAI)...)
		set.byProvider["deepseek"] = append(set.byProvider["deepseek"], validOnly(group.DeepSeek)...)
		set.byProvider["anthropic"] = append(set.byProvider["anthropic"], validOnly(group.Anthropic)...)
	}

	if len(set.byProvider["gemini"]) == 0 {
		logger.Error().Msg("no valid gemini credentials found")
	}
	for provider, creds := range set.byProvider {
		if len(creds) > 0 {
			logger.Info().Str("provider", provider).Int("count", len(creds)).Msg("loaded credentials")
		}
	}
	return set
}

// validOnly drops entries without an api_key field.
func validOnly(creds []Credential) []Credential {
	valid := creds[:0:0]
	for _, c := range creds {
		if c.APIKey != "" {
			valid = append(valid, c)
		}
	}
	return valid
}

// NewCredentialSet builds a set directly; used by tests and embedders.
func NewCredentialSet(byProvider map[string][]Credential) CredentialSet {
	set := CredentialSet{byProvider: make(map[string][]Credential)}
	for provider, creds := range byProvider {
		set.byProvider[provider] = validOnly(creds)
	}
	return set
}

var _ fmt.Stringer = CredentialSet{}

// String summarizes counts per provider without exposing key material.
func (s CredentialSet) String() string {
	total := 0
	for _, creds := range s.byProvider {
		total += len(creds)
	}
	return fmt.Sprintf("CredentialSet(%d keys)", total)
}
