package report

// Manifest summarizes one conversion run for downstream asset tooling.
type Manifest struct {
	Version string `yaml:"version"`
	Icons   []Icon `yaml:"icons"`
}

// Icon describes one generated looping animation.
type Icon struct {
	Name       string `yaml:"name"`
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	CycleMS    int    `yaml:"cycleMs"`
	FrameCount int    `yaml:"frames"`
	Capped     bool   `yaml:"capped,omitempty"` // cycle truncated at the 10s bound
}
