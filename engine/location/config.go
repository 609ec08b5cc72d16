package location

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCityZips is the built-in city/ZIP table used when no configuration
// file is supplied.
func DefaultCityZips() []CityZips {
	return []CityZips{
		{City: "tulsa", Zips: []string{"74127", "74136", "74120", "74104", "74106", "74114"}},
		{City: "norman", Zips: []string{"73069", "73071", "73072"}},
		{City: "oklahoma city", Zips: []string{"73102", "73103", "73106", "73107", "73109", "73112", "73114", "73120"}},
	}
}

type fileConfig struct {
	Cities []CityZips `yaml:"cities"`
}

// LoadCityZips decodes a YAML city/ZIP table of the form
//
//	cities:
//	  - name: tulsa
//	    zips: ["74127", "74136"]
//
// Unknown keys are rejected.
func LoadCityZips(r io.Reader) ([]CityZips, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg fileConfig
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("city zips: empty configuration")
		}
		return nil, fmt.Errorf("city zips: %w", err)
	}
	if len(cfg.Cities) == 0 {
		return nil, fmt.Errorf("city zips: no cities configured")
	}
	return cfg.Cities, nil
}

// LoadCityZipsFile reads LoadCityZips input from path.
func LoadCityZipsFile(path string) ([]CityZips, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city zips: %w", err)
	}
	defer f.Close()
	return LoadCityZips(f)
}
