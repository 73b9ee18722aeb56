package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/gekko3d/voronoi"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file overlaid on the preset")
	uniform := flag.Bool("uniform", false, "Start from the 64-site uniform buffer preset")
	debug := flag.Bool("debug", false, "Enable debug logging (frame timings)")
	sites := flag.Int("sites", 0, "Override the site count")
	msaa := flag.Uint("msaa", 0, "Override the multisample count (1 or 4)")
	seed := flag.Int64("seed", 0, "Seed for site placement (0 = random)")
	flag.Parse()

	cfg := voronoi.DefaultConfig()
	if *uniform {
		cfg = voronoi.UniformConfig()
	}

	logger := voronoi.NewDefaultLogger("voronoi", *debug)

	if *configPath != "" {
		var err error
		cfg, err = voronoi.LoadConfig(cfg, *configPath)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	if *sites > 0 {
		cfg.Sites = *sites
	}
	if *msaa > 0 {
		cfg.MSAA = uint32(*msaa)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.Debug = cfg.Debug || *debug
	logger.SetDebug(cfg.Debug)

	if err := voronoi.Run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
