// Package options contains the program options.
package options

// Output formats.
const (
	FormatBinary = "bin"
	FormatLOD    = "lod"
	FormatTape   = "tape"
	FormatNone   = "none"
)

// Formats lists all supported output formats.
var Formats = []string{FormatBinary, FormatLOD, FormatTape, FormatNone}

// Parameters contains file path options.
type Parameters struct {
	Input    string `flag:"i" usage:"input .lod file, - for standard input"`
	Output   string `flag:"o" usage:"output file (default: stdout)"`
	Batch    string `flag:"batch" usage:"batch process files matching pattern (e.g. *.lod)"`
	Machines string `flag:"machines" usage:"additional machine profile HCL file"`
}

// Flags contains behavior options.
type Flags struct {
	Format      string `flag:"f" usage:"output format: bin, lod, tape, none" default:"bin"`
	Machine     string `flag:"m" usage:"machine profile" default:"full"`
	MemorySize  int    `flag:"size" usage:"memory size override in bytes"`
	EntryPolicy string `flag:"entry" usage:"entry point policy for multiple terminators: last, first"`
	Verify      bool   `flag:"verify" usage:"verify the written memory image against the decoded blocks"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// ReportFlags contains diagnostic output options.
type ReportFlags struct {
	Preview  bool `flag:"preview" usage:"print a summary of the decoded blocks"`
	Disasm   int  `flag:"disasm" usage:"number of instructions to list at the entry point"`
	Debugger bool `flag:"debugger" usage:"print the debugger commands to run the program"`
}

// Program options of the loader.
type Program struct {
	Parameters
	Flags
	ReportFlags
}
