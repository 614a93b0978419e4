package gui

import rl "github.com/gen2brain/raylib-go/raylib"

// hotkeysEnabled is false while the console has keyboard focus, so typing
// "s" does not save the game.
func hotkeysEnabled(ui *gameUI) bool {
	if ui == nil {
		return true
	}
	return ui.screen != screenFarm || !ui.consoleOpen
}

// readTyped appends printable characters typed this frame to buf.
func readTyped(buf string, limit int) string {
	for {
		r := rl.GetCharPressed()
		if r == 0 {
			return buf
		}
		if r < 32 || r == 127 || len(buf) >= limit {
			continue
		}
		buf += string(rune(r))
	}
}

// drainTyped discards queued characters, e.g. the key that opened the
// console.
func drainTyped() {
	for rl.GetCharPressed() != 0 {
	}
}

func backspace(buf string) string {
	if buf == "" {
		return buf
	}
	r := []rune(buf)
	return string(r[:len(r)-1])
}
