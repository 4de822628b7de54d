package config

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/retroenv/retrolod/internal/lod"
	"github.com/retroenv/retrolod/internal/memory"
	"github.com/zclconf/go-cty/cty"
)

// DefaultMachine is the profile used when no machine is selected.
const DefaultMachine = "full"

//go:embed machines.hcl
var builtinMachines []byte

// Machine describes the target memory of an emulated machine.
type Machine struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	MemorySize  int    `hcl:"memory_size"`
	EntryPolicy string `hcl:"entry_policy,optional"`
}

// Policy returns the parsed entry policy of the machine.
func (m Machine) Policy() (lod.EntryPolicy, error) {
	return lod.ParseEntryPolicy(m.EntryPolicy)
}

func (m Machine) validate() error {
	if m.MemorySize <= 0 || m.MemorySize > memory.MaxSize {
		return fmt.Errorf("machine '%s' has invalid memory size %d", m.Name, m.MemorySize)
	}
	if _, err := m.Policy(); err != nil {
		return fmt.Errorf("machine '%s': %w", m.Name, err)
	}
	return nil
}

// Machines maps profile names to machine profiles.
type Machines map[string]Machine

// Get returns the machine profile of the given name.
func (m Machines) Get(name string) (Machine, error) {
	if name == "" {
		name = DefaultMachine
	}
	machine, ok := m[name]
	if !ok {
		return Machine{}, fmt.Errorf("unknown machine '%s', available: %v", name, m.Names())
	}
	return machine, nil
}

// Names returns the sorted profile names.
func (m Machines) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

type machinesFile struct {
	Machines []Machine `hcl:"machine,block"`
}

// LoadMachines returns the built-in machine profiles, extended or overridden
// by the profiles of the given HCL file if the path is not empty.
func LoadMachines(path string) (Machines, error) {
	parser := hclparse.NewParser()

	machines := Machines{}
	if err := decodeMachines(parser, builtinMachines, "builtin:machines.hcl", machines); err != nil {
		return nil, fmt.Errorf("loading built-in machines: %w", err)
	}

	if path == "" {
		return machines, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading machine file %s: %w", path, err)
	}
	if err := decodeMachines(parser, src, path, machines); err != nil {
		return nil, err
	}
	return machines, nil
}

func decodeMachines(parser *hclparse.Parser, src []byte, filename string, machines Machines) error {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed machinesFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &parsed)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	for _, machine := range parsed.Machines {
		if err := machine.validate(); err != nil {
			return fmt.Errorf("invalid machine in %s: %w", filename, err)
		}
		machines[machine.Name] = machine
	}
	return nil
}

// evalContext exposes size units to the machine profile expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"kb": cty.NumberIntVal(1024),
		},
	}
}
