package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func writeMachineFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machines.hcl")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMachinesBuiltin(t *testing.T) {
	machines, err := LoadMachines("")
	assert.NoError(t, err)
	assert.Equal(t, []string{"c1p", "c1p32k", "c2", "full"}, machines.Names())

	c1p, err := machines.Get("c1p")
	assert.NoError(t, err)
	assert.Equal(t, 0x2000, c1p.MemorySize)

	def, err := machines.Get("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultMachine, def.Name)
	assert.Equal(t, 0x10000, def.MemorySize)

	policy, err := def.Policy()
	assert.NoError(t, err)
	assert.Equal(t, lod.EntryLast, policy)
}

func TestLoadMachinesUserFile(t *testing.T) {
	path := writeMachineFile(t, `
machine "c1p" {
  memory_size  = 4 * kb
  entry_policy = "first"
}

machine "uk101" {
  description = "Compukit UK101"
  memory_size = 8192
}
`)

	machines, err := LoadMachines(path)
	assert.NoError(t, err)

	c1p, err := machines.Get("c1p")
	assert.NoError(t, err)
	assert.Equal(t, 0x1000, c1p.MemorySize)
	policy, err := c1p.Policy()
	assert.NoError(t, err)
	assert.Equal(t, lod.EntryFirst, policy)

	uk101, err := machines.Get("uk101")
	assert.NoError(t, err)
	assert.Equal(t, "Compukit UK101", uk101.Description)
}

func TestLoadMachinesErrors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "syntax error",
			content:     `machine "broken" {`,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "missing memory size",
			content:     "machine \"x\" {\n}\n",
			errContains: "failed to decode HCL file",
		},
		{
			name:        "memory too large",
			content:     "machine \"x\" {\n  memory_size = 128 * kb\n}\n",
			errContains: "invalid memory size",
		},
		{
			name:        "unknown entry policy",
			content:     "machine \"x\" {\n  memory_size  = kb\n  entry_policy = \"middle\"\n}\n",
			errContains: "unsupported entry policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMachines(writeMachineFile(t, tt.content))
			assert.ErrorContains(t, err, tt.errContains)
		})
	}

	_, err := LoadMachines(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorContains(t, err, "reading machine file")
}

func TestMachinesGetUnknown(t *testing.T) {
	machines, err := LoadMachines("")
	assert.NoError(t, err)

	_, err = machines.Get("vic20")
	assert.ErrorContains(t, err, "unknown machine 'vic20'")
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(options.Flags{Debug: true}))
	assert.NotNil(t, CreateLogger(options.Flags{Quiet: true}))
}
