package cmd

import (
	"io/ioutil"

	"github.com/pelletier/go-toml"
)

// Policy represents a safety policy file as it is encoded in TOML.  Policies
// supply per-operation overrides for the CUSTOM safety mode and may also pin
// the safety mode itself.
type Policy struct {
	Mode  string   `toml:"mode"`
	Allow []string `toml:"allow"`
	Deny  []string `toml:"deny"`
}

// LoadPolicy loads and deserializes a policy file.
func LoadPolicy(path string) (*Policy, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	policy := &Policy{}
	if err := toml.Unmarshal(buff, policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// Overrides converts a policy's allow and deny lists into an override table.
// An operation named in both lists is denied.
func (p *Policy) Overrides() map[string]bool {
	overrides := make(map[string]bool)

	for _, op := range p.Allow {
		overrides[op] = true
	}

	for _, op := range p.Deny {
		overrides[op] = false
	}

	return overrides
}
