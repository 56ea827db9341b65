package steps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const vitestFixture = `import { fileURLToPath } from 'node:url'
import { mergeConfig, defineConfig, configDefaults } from 'vitest/config'
import viteConfig from './vite.config'

export default mergeConfig(
  viteConfig,
  defineConfig({
  }),
)
`

func TestPatchVitestConfig_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "vitest.config.ts", vitestFixture)
	path := filepath.Join(dir, "vitest.config.ts")

	patched, err := PatchVitestConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !patched {
		t.Fatal("expected first run to patch")
	}

	for i := 0; i < 3; i++ {
		patched, err = PatchVitestConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if patched {
			t.Fatalf("run %d should be a no-op", i+2)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(content), "coverage: {"); n != 1 {
		t.Errorf("expected coverage block exactly once, found %d:\n%s", n, content)
	}
	if !strings.Contains(string(content), "provider: 'v8'") {
		t.Errorf("expected v8 provider, got:\n%s", content)
	}
}

func TestPatchVitestConfig_MissingFile(t *testing.T) {
	patched, err := PatchVitestConfig(filepath.Join(t.TempDir(), "vitest.config.ts"))
	if err != nil || patched {
		t.Fatalf("missing file should be a no-op, got patched=%v err=%v", patched, err)
	}
}

func TestPatchVitestConfig_NoAnchor(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "vitest.config.ts", "export default {}\n")

	patched, err := PatchVitestConfig(filepath.Join(dir, "vitest.config.ts"))
	if err != nil || patched {
		t.Fatalf("file without defineConfig should be left alone, got patched=%v err=%v", patched, err)
	}
}
