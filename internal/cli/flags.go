package cli

import "friday/internal/config"

// Flags holds command-line flags
type Flags struct {
	SpecFile   string
	BaseURL    string
	Output     string
	ServiceURL string
	Check      bool
	Validate   bool
	SpecPath   string
	NameFilter string
	Limit      int
	Verbose    bool
	EnvFile    string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		SpecFile:   f.SpecFile,
		BaseURL:    f.BaseURL,
		Output:     f.Output,
		ServiceURL: f.ServiceURL,
		Check:      f.Check,
		Validate:   f.Validate,
		SpecPath:   f.SpecPath,
		NameFilter: f.NameFilter,
		Limit:      f.Limit,
		Verbose:    f.Verbose,
	}
}
