package domain

// Source is one configured repository source. Higher priority wins when two
// sources publish the same package name.
type Source struct {
	// ID uniquely identifies the source across settings, cache files and
	// lockfile provenance.
	ID string `yaml:"id"`

	// Name is the display name shown to the user.
	Name string `yaml:"name"`

	// URL is the location of the repository index document.
	URL string `yaml:"url"`

	// Priority orders sources when the same package name is published by
	// more than one. Larger is stronger.
	Priority int `yaml:"priority"`

	// Enabled excludes the source from refresh and resolution when false.
	Enabled bool `yaml:"enabled"`
}
