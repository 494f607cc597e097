//go:build gocv

package cvbackend

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
)

// Available reports whether OpenCV support was compiled in.
func Available() bool { return true }

// Extract runs Canny on each color plane of img and ORs the results.
func (b *Backend) Extract(img *image.NRGBA) (*image.Gray, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer src.Close()

	planes := gocv.Split(src)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()

	union := gocv.Zeros(src.Rows(), src.Cols(), gocv.MatTypeCV8U)
	defer union.Close()

	edges := gocv.NewMat()
	defer edges.Close()

	for _, p := range planes {
		gocv.Canny(p, &edges, b.Low, b.High)
		gocv.BitwiseOr(union, edges, &union)
	}

	out, err := union.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge map: %w", err)
	}
	gray, ok := out.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected edge map type %T", out)
	}
	return gray, nil
}

// Trace finds all contours in edges with full hierarchy and no point
// simplification.
func (b *Backend) Trace(edges *image.Gray) (*contour.Forest, error) {
	m, err := gocv.ImageGrayToMatGray(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge map to Mat: %w", err)
	}
	defer m.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	found := gocv.FindContoursWithParams(m, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer found.Close()

	n := found.Size()
	if n == 0 {
		return contour.NewForest(nil, nil)
	}

	// Each hierarchy entry is [next, previous, first child, parent], with -1
	// for none.
	links := make([]contour.Link, n)
	for i := 0; i < n; i++ {
		v := hierarchy.GetVeciAt(0, i)
		links[i] = contour.Link{
			Next:       int(v[0]),
			Prev:       int(v[1]),
			FirstChild: int(v[2]),
			Parent:     int(v[3]),
		}
	}

	contours := make([]contour.Contour, n)
	for i := 0; i < n; i++ {
		depth := 0
		for p := links[i].Parent; p != contour.None && depth <= n; p = links[p].Parent {
			depth++
		}
		contours[i] = contour.New(found.At(i).ToPoints(), depth%2 == 1)
	}

	return contour.NewForest(contours, links)
}
