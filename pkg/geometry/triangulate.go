package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Triangulate splits a simple polygon into triangles by ear clipping and
// returns vertex index triples in counter-clockwise order. Collinear
// vertices are tolerated; if no ear can be found the remainder is fanned
// from its first vertex.
func Triangulate(p Polygon) [][3]int {
	n := len(p)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if p.SignedArea() < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		m := len(idx)
		clipped := false
		for i := 0; i < m; i++ {
			a, b, c := idx[(i+m-1)%m], idx[i], idx[(i+1)%m]
			if !isEar(p, idx, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return tris
		}
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

func isEar(p Polygon, idx []int, a, b, c int) bool {
	if orient(p[a], p[b], p[c]) <= 1e-12 {
		return false
	}
	for _, k := range idx {
		if k == a || k == b || k == c {
			continue
		}
		if inTriangle(p[k], p[a], p[b], p[c]) {
			return false
		}
	}
	return true
}

func inTriangle(v, a, b, c r2.Vec) bool {
	const eps = -1e-12
	return orient(a, b, v) >= eps && orient(b, c, v) >= eps && orient(c, a, v) >= eps
}
