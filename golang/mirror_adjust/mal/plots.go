package mal

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

//MakePlots renders the comparison figures for one fit into dir:
//
//	adjustment.png - input displacement and best adjustment on a shared color scale
//	residual.png   - the residual at the shared scale and at a 1%-99% percentile scale
//	profile.png    - axial profiles averaged over a central azimuthal band
//
//The displacement is trimmed by clip cells per edge first so that it matches
//the grid the adjustment was reconstructed on. Input and residual standard
//deviations are reported through the log.
func MakePlots(displ, adj *mat.Dense, clip int, dir string) error {
	if clip > 0 {
		dAx, dAz := displ.Dims()
		displ = mat.DenseCopyOf(displ.Slice(clip, dAx-clip, clip, dAz-clip))
	}
	nAx, nAz := displ.Dims()
	aAx, aAz := adj.Dims()
	if aAx != nAx || aAz != nAz {
		return ShapeMismatchError{BankAx: aAx, BankAz: aAz, DisplAx: nAx, DisplAz: nAz}
	}

	resid := mat.NewDense(nAx, nAz, nil)
	resid.Sub(displ, adj)

	vmin := math.Min(mat.Min(displ), mat.Min(adj))
	vmax := math.Max(mat.Max(displ), mat.Max(adj))

	err := savePNGColumn(filepath.Join(dir, "adjustment.png"),
		heatPlot("input displacement", displ, vmin, vmax),
		heatPlot("best adjustment", adj, vmin, vmax),
	)
	if err != nil {
		return err
	}

	residf := make([]float64, nAx*nAz)
	copy(residf, resid.RawMatrix().Data)
	sort.Float64s(residf)
	lo := residf[len(residf)/100]
	hi := residf[len(residf)*99/100]

	err = savePNGColumn(filepath.Join(dir, "residual.png"),
		heatPlot("residual", resid, vmin, vmax),
		heatPlot("residual, 1%-99% scale", resid, lo, hi),
	)
	if err != nil {
		return err
	}

	if err := profilePlot(filepath.Join(dir, "profile.png"), displ, adj, resid); err != nil {
		return err
	}

	log.Printf("Input stddev: %.4f", Stddev(displ))
	log.Printf("Resid stddev: %.4f", Stddev(resid))
	return nil
}

//heatGrid adapts a mat.Dense to plotter.GridXYZ with the azimuthal index on
//the horizontal axis and the axial index on the vertical one.
type heatGrid struct {
	m *mat.Dense
}

func (g heatGrid) Dims() (int, int) {
	r, c := g.m.Dims()
	return c, r
}

func (g heatGrid) Z(c, r int) float64 { return g.m.At(r, c) }

func (g heatGrid) X(c int) float64 { return float64(c) }

func (g heatGrid) Y(r int) float64 { return float64(r) }

func heatPlot(title string, m *mat.Dense, vmin, vmax float64) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "azimuthal"
	p.Y.Label.Text = "axial"

	h := plotter.NewHeatMap(heatGrid{m}, palette.Heat(64, 1))
	h.Min, h.Max = vmin, vmax
	p.Add(h)
	return p
}

//savePNGColumn draws the given plots stacked vertically on one PNG canvas.
func savePNGColumn(fileName string, plots ...*plot.Plot) error {
	const width, height = 6 * vg.Inch, 4 * vg.Inch

	img := vgimg.New(width, height*vg.Length(len(plots)))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: len(plots), Cols: 1}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}

	w, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer func() { HandleError(w.Close()) }()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return err
}

//profilePlot plots axial means over a central azimuthal band. The input and
//the adjustment are divided by ten so the residual stays visible on the same
//axes.
func profilePlot(fileName string, displ, adj, resid *mat.Dense) error {
	nAx, nAz := displ.Dims()
	band := nAz / 10
	if band < 1 {
		band = 1
	}
	start := (nAz - band) / 2

	p := plot.New()
	p.Title.Text = "axial profiles"
	p.X.Label.Text = "axial"
	p.Y.Label.Text = "arcsec"

	curves := []struct {
		name string
		m    *mat.Dense
		div  float64
	}{
		{"input / 10", displ, 10},
		{"adjust / 10", adj, 10},
		{"resid", resid, 1},
	}
	for i, cur := range curves {
		pts := make(plotter.XYs, nAx)
		for x := 0; x < nAx; x++ {
			sum := 0.0
			for y := start; y < start+band; y++ {
				sum += cur.m.At(x, y)
			}
			pts[x].X = float64(x)
			pts[x].Y = sum / float64(band) / cur.div
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(cur.name, line)
	}

	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, fileName)
}
