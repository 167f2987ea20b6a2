package report

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders productivity values in [-1, 1] as block characters.
// The scale is fixed so -1 is the lowest block, 0 the middle and +1 the
// highest, which keeps consecutive renders comparable.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	result := make([]rune, len(values))
	for i, v := range values {
		if v < -1 {
			v = -1
		}
		if v > 1 {
			v = 1
		}
		idx := int((v + 1) / 2 * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		result[i] = blocks[idx]
	}
	return string(result)
}
