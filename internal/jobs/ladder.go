package jobs

type Resolution struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Ladder lists the supported renditions, highest first.
var Ladder = []Resolution{
	{Height: 1080, Width: 1920},
	{Height: 720, Width: 1280},
	{Height: 540, Width: 960},
	{Height: 480, Width: 854},
	{Height: 360, Width: 640},
}

// LadderFor returns every rung whose height does not exceed height.
func LadderFor(height int) []Resolution {
	out := make([]Resolution, 0, len(Ladder))
	for _, r := range Ladder {
		if r.Height <= height {
			out = append(out, r)
		}
	}
	return out
}

func IsRung(height int) bool {
	for _, r := range Ladder {
		if r.Height == height {
			return true
		}
	}
	return false
}
