package theme

type Typography struct {
	Title      int32
	Header     int32
	Body       int32
	Small      int32
	Log        int32
	LineFactor float32
}

// Type is sized for the 900x600 farm window.
var Type = Typography{
	Title:      28,
	Header:     19,
	Body:       16,
	Small:      13,
	Log:        14,
	LineFactor: 1.35,
}
