package maplib

// Tile indices of the stock tileset
const (
	TileStone  = 4
	TileWood   = 6
	TilePillar = 7
	TileLedge  = 24
)

// LevelHeight is the stock level height in tiles (340px at 20px tiles)
const LevelHeight = 17

// GenerateLevel builds the stock corridor level: a stone ceiling and
// floor with pits, wooden blocks to jump over and ledges to flip onto.
// It is deterministic for a given width.
func GenerateLevel(width int) *TileMap {
	if width < 40 {
		width = 40
	}
	tm := NewTileMap("corridor", width, LevelHeight, 20)
	tm.SetCollision(TileStone, TileWood, TileLedge)

	floor, ceil := LevelHeight-1, 0
	tm.Fill(0, ceil, width-1, ceil, TileStone)
	tm.Fill(0, floor, width-1, floor, TileStone)

	// pits in the floor and holes in the ceiling, alternating
	for x := 60; x < width-20; x += 90 {
		tm.Fill(x, floor, x+3, floor, TileEmpty)
		tm.Fill(x+45, ceil, x+48, ceil, TileEmpty)
	}

	// wooden blocks on the floor and hanging from the ceiling
	for x := 35; x < width-10; x += 70 {
		tm.Fill(x, floor-2, x+1, floor-1, TileWood)
		tm.Fill(x+30, ceil+1, x+31, ceil+2, TileWood)
	}

	// mid-air ledges
	for x := 120; x < width-30; x += 150 {
		tm.Fill(x, 8, x+12, 8, TileLedge)
	}

	// background pillars, not solid
	for x := 10; x < width; x += 25 {
		if tm.At(x, floor-1) == TileEmpty {
			tm.Set(x, floor-1, TilePillar)
		}
	}
	return tm
}
