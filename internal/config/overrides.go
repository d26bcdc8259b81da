package config

// Overrides carries command-line values that take priority over the file.
// Nil pointers and empty strings leave the loaded value alone.
type Overrides struct {
	LogLevel       string
	LogFile        string
	InPlace        *bool
	MatchTolerance *float64
	DefaultFormat  string
}

// Apply applies CLI flag overrides to the config.
func (c *Config) Apply(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.LogFile = o.LogFile
	}
	if o.InPlace != nil {
		c.Reorder.InPlace = *o.InPlace
	}
	if o.MatchTolerance != nil {
		c.Reorder.MatchTolerance = *o.MatchTolerance
	}
	if o.DefaultFormat != "" {
		c.Reorder.DefaultFormat = o.DefaultFormat
	}
}
