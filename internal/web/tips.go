package web

import (
	"math/rand/v2"
	"net/http"
)

var farmingTips = []string{
	"Healthy soil grows healthy crops. Test your soil every season!",
	"Bees are nature's pollinators. Protect them to boost your yield.",
	"Crop rotation keeps soil nutrients balanced.",
	"Cover crops prevent erosion and feed your soil.",
	"Drip irrigation saves up to 60% water compared to sprinklers.",
	"Compost adds natural nutrients without chemicals.",
	"Harvesting early morning preserves flavor and freshness.",
	"Shade-loving plants thrive under partial sunlight.",
	"A handful of worms means your soil is alive!",
	"Organic mulch reduces weeds naturally.",
}

type TipResponse struct {
	Tip string `json:"tip"`
}

func (s *Server) handleRandomTip(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TipResponse{Tip: s.tips[s.pick(len(s.tips))]})
}

func defaultPick(n int) int {
	return rand.IntN(n)
}
