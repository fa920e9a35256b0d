package benchmarks

import (
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

// startProfiling starts the cpu profile if requested, the returned function
// stops it and writes the memory profile
func startProfiling(saveFile string) func() {
	stops := make([]func(), 0)
	if cpuprofile != "" {
		cpuProfPath := path.Join(saveFile, cpuprofile)
		log.Printf("[APP] [INFO] profiling CPU to %s", cpuProfPath)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			log.Printf("[APP] [ERROR] could not create CPU profile: %s", err)
		} else if err := pprof.StartCPUProfile(f); err != nil {
			log.Printf("[APP] [ERROR] could not start CPU profile: %s", err)
			f.Close()
		} else {
			stops = append(stops, func() {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}

	if memprofile != "" {
		memProfPath := path.Join(saveFile, memprofile)
		stops = append(stops, func() {
			log.Printf("[APP] [INFO] profiling memory to %s", memProfPath)
			f, err := os.Create(memProfPath)
			if err != nil {
				log.Printf("[APP] [ERROR] could not create memory profile: %s", err)
				return
			}
			defer f.Close()
			runtime.GC() // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Printf("[APP] [ERROR] could not write memory profile: %s", err)
			}
		})
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
