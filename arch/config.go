package arch

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/systolic/hw"
)

// ArchConfig holds the structural parameters of the accelerator.
type ArchConfig struct {
	// ArrX is the number of PE columns, one output channel each.
	ArrX int `yaml:"arr_x"`
	// ArrY is the number of PE rows, one input channel each.
	ArrY int `yaml:"arr_y"`
	// ChnPerWord is the number of values carried by one GLB or DRAM word.
	ChnPerWord int `yaml:"chn_per_word"`

	PEChanDepth      int `yaml:"pe_chan_depth"`
	GLBReadChanDepth int `yaml:"glb_read_chan_depth"`
	IOChanDepth      int `yaml:"io_chan_depth"`
	IfmapGLBDepth    int `yaml:"ifmap_glb_depth"`
	PsumGLBDepth     int `yaml:"psum_glb_depth"`
	SRAMLatency      int `yaml:"sram_latency"`
}

// DefaultArchConfig returns a 4x8 array moving 4 channels per word.
func DefaultArchConfig() ArchConfig {
	return ArchConfig{
		ArrX:             8,
		ArrY:             4,
		ChnPerWord:       4,
		PEChanDepth:      32,
		GLBReadChanDepth: 3,
		IOChanDepth:      2,
		IfmapGLBDepth:    4096,
		PsumGLBDepth:     4096,
		SRAMLatency:      1,
	}
}

// Validate checks that the array can be wired.
func (a ArchConfig) Validate() error {
	if a.ArrX <= 0 || a.ArrY <= 0 {
		return errors.Errorf("array must be at least 1x1, got %dx%d",
			a.ArrY, a.ArrX)
	}

	if a.ChnPerWord <= 0 {
		return errors.Errorf("chn_per_word must be positive, got %d",
			a.ChnPerWord)
	}

	if a.ArrX%a.ChnPerWord != 0 || a.ArrY%a.ChnPerWord != 0 {
		return errors.Errorf(
			"array %dx%d is not a multiple of chn_per_word %d",
			a.ArrY, a.ArrX, a.ChnPerWord)
	}

	for name, v := range map[string]int{
		"pe_chan_depth":       a.PEChanDepth,
		"glb_read_chan_depth": a.GLBReadChanDepth,
		"io_chan_depth":       a.IOChanDepth,
		"ifmap_glb_depth":     a.IfmapGLBDepth,
		"psum_glb_depth":      a.PsumGLBDepth,
		"sram_latency":        a.SRAMLatency,
	} {
		if v <= 0 {
			return errors.Errorf("%s must be positive, got %d", name, v)
		}
	}

	if a.GLBReadChanDepth > hw.MaxOutstandingReads {
		return errors.Errorf("glb_read_chan_depth must be at most %d, got %d",
			hw.MaxOutstandingReads, a.GLBReadChanDepth)
	}

	return nil
}

// LayerConfig describes one convolution layer.
type LayerConfig struct {
	Image       Size `yaml:"image"`
	Filter      Size `yaml:"filter"`
	InChannels  int  `yaml:"in_channels"`
	OutChannels int  `yaml:"out_channels"`
}

// DefaultLayerConfig returns a 4x4 image, 3x3 filter, 4 to 8 channel layer.
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{
		Image:       Size{X: 4, Y: 4},
		Filter:      Size{X: 3, Y: 3},
		InChannels:  4,
		OutChannels: 8,
	}
}

// Validate checks the layer on its own.
func (l LayerConfig) Validate() error {
	if l.Image.X <= 0 || l.Image.Y <= 0 {
		return errors.Errorf("image must be at least 1x1, got %dx%d",
			l.Image.X, l.Image.Y)
	}

	if l.Filter.X <= 0 || l.Filter.Y <= 0 {
		return errors.Errorf("filter must be at least 1x1, got %dx%d",
			l.Filter.X, l.Filter.Y)
	}

	if l.Filter.X > l.Image.X || l.Filter.Y > l.Image.Y {
		return errors.Errorf("filter %dx%d is larger than image %dx%d",
			l.Filter.X, l.Filter.Y, l.Image.X, l.Image.Y)
	}

	if l.InChannels <= 0 || l.OutChannels <= 0 {
		return errors.Errorf("channel counts must be positive, got %d and %d",
			l.InChannels, l.OutChannels)
	}

	return nil
}

// Validate checks that the layer can run on the array.
func Validate(a ArchConfig, l LayerConfig) error {
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "invalid arch")
	}

	if err := l.Validate(); err != nil {
		return errors.Wrap(err, "invalid layer")
	}

	g := NewGeometry(a, l)

	if g.IfmapWords() > a.IfmapGLBDepth {
		return errors.Errorf("ifmap needs %d GLB words, only %d available",
			g.IfmapWords(), a.IfmapGLBDepth)
	}

	if g.PsumWords() > a.PsumGLBDepth {
		return errors.Errorf("psum needs %d GLB words, only %d available",
			g.PsumWords(), a.PsumGLBDepth)
	}

	return nil
}

// File is the content of a configuration file.
type File struct {
	Arch      ArchConfig  `yaml:"arch"`
	Layer     LayerConfig `yaml:"layer"`
	Seed      int64       `yaml:"seed"`
	MaxCycles uint64      `yaml:"max_cycles"`
}

// DefaultFile returns the configuration used when no file is given.
func DefaultFile() File {
	return File{
		Arch:      DefaultArchConfig(),
		Layer:     DefaultLayerConfig(),
		Seed:      1,
		MaxCycles: 1_000_000,
	}
}

// ParseConfig reads a YAML document on top of the defaults.
func ParseConfig(data []byte) (File, error) {
	f := DefaultFile()

	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(err, "cannot parse config")
	}

	if err := Validate(f.Arch, f.Layer); err != nil {
		return File{}, err
	}

	return f, nil
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "cannot read %s", path)
	}

	f, err := ParseConfig(data)
	if err != nil {
		return File{}, errors.Wrap(err, path)
	}

	return f, nil
}
