package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(os.TempDir(), "aegis_policy_test.toml")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write policy file: %s", err)
	}

	t.Cleanup(func() { os.Remove(path) })
	return path
}

func TestLoadPolicy(t *testing.T) {
	path := writePolicy(t, `
mode = "custom"
allow = ["net.listen", "registry.write"]
deny = ["kernel32.VirtualAlloc"]
`)

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected load error: %s", err)
	}

	if policy.Mode != "custom" {
		t.Errorf("expected mode `custom`, got `%s`", policy.Mode)
	}

	overrides := policy.Overrides()
	if allowed, ok := overrides["net.listen"]; !ok || !allowed {
		t.Errorf("expected net.listen to be allowed")
	}
	if allowed, ok := overrides["kernel32.VirtualAlloc"]; !ok || allowed {
		t.Errorf("expected kernel32.VirtualAlloc to be denied")
	}
}

func TestPolicyDenyWinsOverAllow(t *testing.T) {
	path := writePolicy(t, `
allow = ["fs.delete"]
deny = ["fs.delete"]
`)

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected load error: %s", err)
	}

	if policy.Overrides()["fs.delete"] {
		t.Errorf("expected fs.delete to be denied when listed in both")
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	if _, err := LoadPolicy(filepath.Join(os.TempDir(), "does_not_exist.toml")); err == nil {
		t.Errorf("expected an error for a missing policy file")
	}
}

func TestOutputPathNaming(t *testing.T) {
	c := NewCompiler(filepath.Join("proj", "agent.ae"))

	if got := filepath.Base(c.outputPath()); got != "agent.ll" {
		t.Errorf("expected default output agent.ll, got %s", got)
	}

	c.outKind = "driver"
	if got := filepath.Base(c.outputPath()); got != "agent_driver.ll" {
		t.Errorf("expected driver output agent_driver.ll, got %s", got)
	}

	c.outPath = "custom.ll"
	if got := c.outputPath(); got != "custom.ll" {
		t.Errorf("expected explicit output custom.ll, got %s", got)
	}
}
