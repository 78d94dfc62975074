package mal

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//DrawCoeffGraph renders the actuator lattice as a graph with one box node
//per actuator, labeled with its grid position and fitted coefficient.
//Lattice edges to the right and lower neighbors keep the layout close to
//the physical actuator grid. Rendering is left to the caller, e.g.
//graphViz.RenderFilename(graph, graphviz.PNG, fileName).
func (adjustment *Adjustment) DrawCoeffGraph() (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	nodes := make([]*cgraph.Node, adjustment.NRow*adjustment.NCol)
	for r := 0; r < adjustment.NRow; r++ {
		for c := 0; c < adjustment.NCol; c++ {
			a := r*adjustment.NCol + c
			node, err := graph.CreateNode(fmt.Sprintf("a%02d_%02d", r, c))
			HandleError(err)
			node.Set("label", fmt.Sprintf("(%d,%d)\n%6.3f", r, c, adjustment.Coeffs[a]))
			node.Set("shape", "box")
			nodes[a] = node
		}
	}

	for r := 0; r < adjustment.NRow; r++ {
		for c := 0; c < adjustment.NCol; c++ {
			a := r*adjustment.NCol + c
			if c+1 < adjustment.NCol {
				_, err := graph.CreateEdge("", nodes[a], nodes[a+1])
				HandleError(err)
			}
			if r+1 < adjustment.NRow {
				_, err := graph.CreateEdge("", nodes[a], nodes[a+adjustment.NCol])
				HandleError(err)
			}
		}
	}

	return graphViz, graph
}
