//go:build ignore

// gen_earth_placeholder.go – run with:
//
//	go run scripts/gen_earth_placeholder.go
//
// Writes assets/earth.jpg, a 2048x1024 equirectangular stand-in for the
// globe texture. Ocean shades by latitude, with a graticule every 15 degrees
// and the equator and prime meridian drawn brighter so picks can be checked
// by eye. Replace with a real earth map at any time.
package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"
)

const (
	width  = 2048
	height = 1024
	step   = 15.0
)

func main() {
	if err := os.MkdirAll("assets", 0o755); err != nil {
		log.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ocean := color.RGBA{0x1C, 0x4E, 0x80, 0xFF}
	polar := color.RGBA{0xD8, 0xE4, 0xEC, 0xFF}
	grid := color.RGBA{0x5A, 0x86, 0xAE, 0xFF}
	axis := color.RGBA{0xF2, 0xC1, 0x4E, 0xFF}

	degX := float64(width) / 360
	degY := float64(height) / 180
	for y := 0; y < height; y++ {
		lat := 90 - float64(y)/degY
		base := ocean
		if lat > 70 || lat < -70 {
			base = polar
		}
		for x := 0; x < width; x++ {
			lon := float64(x)/degX - 180
			c := base
			switch {
			case onLine(lat, 0, degY) || onLine(lon, 0, degX):
				c = axis
			case onGrid(lat, degY) || onGrid(lon, degX):
				c = grid
			}
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join("assets", "earth.jpg")
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		log.Fatalf("encode %s: %v", path, err)
	}
	log.Printf("wrote %s (%dx%d)", path, width, height)
}

// onLine reports whether v lies within one pixel of the line at target,
// given pixels per degree.
func onLine(v, target, perDeg float64) bool {
	d := v - target
	if d < 0 {
		d = -d
	}
	return d*perDeg < 1
}

func onGrid(v, perDeg float64) bool {
	nearest := float64(int((v+180+step/2)/step))*step - 180
	return onLine(v, nearest, perDeg)
}
