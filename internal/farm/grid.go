package farm

const (
	DefaultCols     = 30
	DefaultRows     = 20
	DefaultTileSize = 30
)

// Grid is a fixed row-major set of tiles created once per session.
type Grid struct {
	Cols  int
	Rows  int
	tiles []Tile
}

func NewGrid(cols, rows int) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g := &Grid{Cols: cols, Rows: rows, tiles: make([]Tile, 0, cols*rows)}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g.tiles = append(g.tiles, NewTile(Pos{X: x, Y: y}))
		}
	}
	return g
}

func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Cols && p.Y < g.Rows
}

func (g *Grid) At(p Pos) *Tile {
	if !g.InBounds(p) {
		return nil
	}
	return &g.tiles[p.Y*g.Cols+p.X]
}

func (g *Grid) Tiles() []Tile {
	return g.tiles
}

// Each visits tiles in row-major order.
func (g *Grid) Each(fn func(t *Tile)) {
	for i := range g.tiles {
		fn(&g.tiles[i])
	}
}

// Neighbors returns the tiles within Chebyshev distance radius of p,
// including p itself, clipped to the grid.
func (g *Grid) Neighbors(p Pos, radius int) []*Tile {
	if radius < 0 {
		radius = 0
	}
	out := make([]*Tile, 0, (2*radius+1)*(2*radius+1))
	for y := p.Y - radius; y <= p.Y+radius; y++ {
		for x := p.X - radius; x <= p.X+radius; x++ {
			if t := g.At(Pos{X: x, Y: y}); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// Layout maps screen pixels to grid cells.
type Layout struct {
	OriginX  float32
	OriginY  float32
	TileSize float32
	Cols     int
	Rows     int
}

func DefaultLayout() Layout {
	return Layout{TileSize: DefaultTileSize, Cols: DefaultCols, Rows: DefaultRows}
}

func (l Layout) CellAt(px, py float32) (Pos, bool) {
	if l.TileSize <= 0 {
		return Pos{}, false
	}
	fx := (px - l.OriginX) / l.TileSize
	fy := (py - l.OriginY) / l.TileSize
	if fx < 0 || fy < 0 {
		return Pos{}, false
	}
	p := Pos{X: int(fx), Y: int(fy)}
	if p.X >= l.Cols || p.Y >= l.Rows {
		return Pos{}, false
	}
	return p, true
}

// CellRect returns the pixel rectangle of p as x, y, w, h.
func (l Layout) CellRect(p Pos) (float32, float32, float32, float32) {
	return l.OriginX + float32(p.X)*l.TileSize, l.OriginY + float32(p.Y)*l.TileSize, l.TileSize, l.TileSize
}
