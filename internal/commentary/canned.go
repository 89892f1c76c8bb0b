package commentary

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/tomz197/balloon-darts/internal/game"
)

var cannedLines = map[Voice]map[game.EventKind][]string{
	Announcer: {
		game.EventMiss: {
			"Target acquired. Target ignored.",
			"Recalibrating your confidence.",
			"That balloon files a complaint of boredom.",
		},
		game.EventLevelUp: {
			"New stage loaded. Try not to crash it.",
			"More balloons. More chances to disappoint me.",
			"Level up. My sensors are mildly impressed.",
		},
		game.EventGameOver: {
			"Out of darts. Out of excuses.",
			"Session terminated. Please insert dignity.",
			"Final score logged. I will not judge. Much.",
		},
		game.EventStreak: {
			"Streak detected. Are you a robot too?",
			"Combo online. Keep the circuits warm.",
			"Three in a row. Statistically suspicious.",
		},
	},
	Vendor: {
		game.EventMiss: {
			"Aiyoh, the balloon so big also miss!",
			"Alamak, eyes open a bit lah!",
			"Wah lao, my grandma throw better!",
		},
		game.EventLevelUp: {
			"Steady lah, next round more balloons!",
			"Wah, can go pro already!",
			"Come come, more balloons for you!",
		},
		game.EventGameOver: {
			"Buy more tokens, don't shy!",
			"Aiyoh, finish already? Again lah!",
			"Alamak, darts all gone liao!",
		},
		game.EventStreak: {
			"Wah, so pro ah!",
			"Lao deh, steady bom pi pi!",
			"Eh, you practise at home ah?",
		},
	},
}

// CannedGenerator picks lines from built-in phrase tables. It needs no
// network and is used when no API key is configured.
type CannedGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCannedGenerator creates a generator seeded from rng, or from the
// clock when rng is nil.
func NewCannedGenerator(rng *rand.Rand) *CannedGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CannedGenerator{rng: rng}
}

// Generate implements Generator. Unknown events produce an empty line so
// the dispatcher falls back to the voice's default.
func (g *CannedGenerator) Generate(ctx context.Context, voice Voice, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines := cannedLines[voice][req.Event]
	if len(lines) == 0 {
		return "", nil
	}
	g.mu.Lock()
	i := g.rng.Intn(len(lines))
	g.mu.Unlock()
	return lines[i], nil
}
