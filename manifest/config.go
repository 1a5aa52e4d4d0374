package manifest

import "fmt"

// Config locates the declaration files of a workspace.
type Config struct {
	// Root is the workspace directory every other path is relative to.
	Root string `yaml:"root" mapstructure:"root" validate:"required"`
	// ProjectGlob is matched against file names below Root.
	ProjectGlob string `yaml:"project_glob" mapstructure:"project_glob"`
	// ModuleFile is the module manifest, relative to Root.
	ModuleFile string `yaml:"module_file" mapstructure:"module_file"`
	// TemplateFile is looked up in every solution root.
	TemplateFile string `yaml:"template_file" mapstructure:"template_file"`
	// ChangesFile lists changed unit names, one per line.
	ChangesFile string `yaml:"changes_file" mapstructure:"changes_file"`
	// Parallelism bounds concurrent project file reads.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=0"`
}

// ApplyDefaults applies default values to manifest configuration.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.ProjectGlob == "" {
		c.ProjectGlob = "*.project.yaml"
	}
	if c.ModuleFile == "" {
		c.ModuleFile = "modules.yaml"
	}
	if c.TemplateFile == "" {
		c.TemplateFile = "templates.yaml"
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 8
	}
}

// Validate validates manifest configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("manifest.root is required")
	}
	if _, err := matchName(c.ProjectGlob, "x"); err != nil {
		return fmt.Errorf("manifest.project_glob is not a valid pattern: %w", err)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("manifest.parallelism must be at least 1 (got: %d)", c.Parallelism)
	}
	return nil
}
