package at

// pattern tracks how far a literal has matched a byte stream. On a mismatch
// progress falls back along the literal's failure links instead of restarting
// from zero, so a match overlapping an abandoned partial match is not lost.
type pattern struct {
	lit      []byte
	fail     []int
	progress int
}

func newPattern(lit string) *pattern {
	p := &pattern{lit: []byte(lit), fail: make([]int, len(lit))}
	for i, k := 1, 0; i < len(p.lit); i++ {
		for k > 0 && p.lit[i] != p.lit[k] {
			k = p.fail[k-1]
		}
		if p.lit[i] == p.lit[k] {
			k++
		}
		p.fail[i] = k
	}
	return p
}

// step feeds one byte and reports whether it completed the literal. After a
// completion progress starts over from zero.
func (p *pattern) step(c byte) bool {
	if len(p.lit) == 0 {
		return false
	}
	for p.progress > 0 && p.lit[p.progress] != c {
		p.progress = p.fail[p.progress-1]
	}
	if p.lit[p.progress] == c {
		p.progress++
	}
	if p.progress == len(p.lit) {
		p.progress = 0
		return true
	}
	return false
}
