package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/greenscore/internal/contract"
)

// GetMaxTableSourceWidth calculates the maximum width for source paths in table output
// based on terminal width and the fixed leaderboard columns.
func GetMaxTableSourceWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Position + Total + Rank + E/S/G + Flags, plus borders and padding
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
