package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/goccy/go-graphviz"
	"github.com/sbinet/npyio"
	"github.com/tarstars/mirror_adjust/golang/mirror_adjust/mal"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	mal.HandleError(err)
	defer func() { mal.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	mal.HandleError(decoder.Decode(out))
}

func writeNpy(fileName string, data interface{}) {
	dst, err := os.Create(fileName)
	mal.HandleError(err)
	defer func() { mal.HandleError(dst.Close()) }()
	mal.HandleError(npyio.Write(dst, data))
}

//FitConfig selects the fit inputs. The displacement comes from
//filename_displ when set, otherwise it is generated from the Legendre
//polynomial orders on the grid of the influence functions.
type FitConfig struct {
	FileNameIfuncs string  `json:"filename_ifuncs"`
	FileNameDispl  string  `json:"filename_displ"`
	LegendreOrdAx  int     `json:"legendre_ord_ax"`
	LegendreOrdAz  int     `json:"legendre_ord_az"`
	DisplRms       float64 `json:"displ_rms"`
	NSS            int     `json:"n_ss"`
	Clip           int     `json:"clip"`
	FileNameCoeffs string  `json:"filename_coeffs"`
	FileNameAdj    string  `json:"filename_adj"`
}

type PlotConfig struct {
	FitConfig
	PicturesDirectory string `json:"pictures_directory"`
}

type GraphConfig struct {
	FitConfig
	FigureType    string `json:"figure_type"`
	FileNameGraph string `json:"filename_graph"`
}

func loadSession(cfg FitConfig) *mal.Session {
	session := &mal.Session{NSS: cfg.NSS, Clip: cfg.Clip}

	log.Print("\ttry to load ifuncs <", cfg.FileNameIfuncs, ">")
	mal.HandleError(session.LoadIfuncs(cfg.FileNameIfuncs))

	if cfg.FileNameDispl != "" {
		log.Print("\ttry to load displ <", cfg.FileNameDispl, ">")
		mal.HandleError(session.LoadDisplGrav(cfg.FileNameDispl, cfg.DisplRms))
	} else {
		log.Printf("\tgenerate legendre displ, orders %d/%d", cfg.LegendreOrdAx, cfg.LegendreOrdAz)
		mal.HandleError(session.UseLegendreDispl(cfg.LegendreOrdAx, cfg.LegendreOrdAz, cfg.DisplRms))
	}
	return session
}

func runFit(cfg FitConfig) (*mal.Session, *mal.Adjustment) {
	session := loadSession(cfg)
	adjustment, err := session.Fit()
	mal.HandleError(err)

	if cfg.FileNameCoeffs != "" {
		writeNpy(cfg.FileNameCoeffs, adjustment.Coeffs)
	}
	if cfg.FileNameAdj != "" {
		writeNpy(cfg.FileNameAdj, adjustment.Adj)
	}
	return session, adjustment
}

func fit(srcConfig string) {
	var cfg FitConfig
	decodeConfig(srcConfig, &cfg)

	_, adjustment := runFit(cfg)
	log.Printf("fitted %d coefficients over a %dx%d grid",
		len(adjustment.Coeffs), adjustment.NAx, adjustment.NAz)
}

func plotFigures(srcConfig string) {
	var cfg PlotConfig
	decodeConfig(srcConfig, &cfg)

	session, adjustment := runFit(cfg.FitConfig)
	mal.HandleError(mal.MakePlots(session.Displ, adjustment.Adj, cfg.Clip, cfg.PicturesDirectory))
}

func graph(srcConfig string) {
	var cfg GraphConfig
	decodeConfig(srcConfig, &cfg)

	_, adjustment := runFit(cfg.FitConfig)

	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[cfg.FigureType]

	graphViz, coeffGraph := adjustment.DrawCoeffGraph()
	mal.HandleError(graphViz.RenderFilename(coeffGraph, graphvizType, cfg.FileNameGraph))
}

func main() {
	runMode := flag.String("mode", "fit", "you can select either 'fit', 'plot' or 'graph' modes")
	config := flag.String("config", "mirror_adjust_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string){
		"fit":   fit,
		"plot":  plotFigures,
		"graph": graph,
	}[*runMode](*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		mal.HandleError(err)
		defer func() { mal.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
