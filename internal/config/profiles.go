package config

import "sort"

// Profiles carries the two constant sets the presentation modes were
// originally compiled with. The animate profile cools slowly toward a
// threshold it barely reaches; the capture profile cools fast enough that
// bootstrap is guaranteed within a few thousand steps.
var Profiles = map[string]*Config{
	"animate": {
		Size: 128, TempInitial: 100.0, TempFinal: 1.0,
		CoolingRate: 0.5, XiCritical: 10.0, NoiseAmplitude: 1.0,
		StepsPerTick: 5, Steps: 2500, CaptureEvery: 200,
	},
	"capture": {
		Size: 128, TempInitial: 100.0, TempFinal: 0.1,
		CoolingRate: 8.0, XiCritical: 8.0, NoiseAmplitude: 1.0,
		StepsPerTick: 5, Steps: 3000, CaptureEvery: 200,
	},
}

func GetProfile(name string) *Config {
	cfg, ok := Profiles[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
