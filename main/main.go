package main

import (
	"log"
	"math"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/paulmach/orb"

	"github.com/rawbytedev/polysimp"
)

// profiling harness: hammer the simplifiers on a synthetic route and dump a
// memory profile
func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	route := make(orb.LineString, 5000)
	for i := range route {
		x := float64(i) * 0.01
		route[i] = orb.Point{x, math.Sin(x) + 0.05*math.Sin(x*37)}
	}

	for i := 0; i < 10000; i++ {
		if _, err := polysimp.RDP(route, 0.01); err != nil {
			log.Fatal(err)
		}
		if _, err := polysimp.Visvalingam(route, 0.0001); err != nil {
			log.Fatal(err)
		}
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal(err)
	}
}
