package learning

// sequenceRatio measures how similar two strings are as a value in [0,1]:
// twice the number of matching characters (found greedily as longest
// matching blocks) over the total length. Equivalent inputs score 1.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	// Index positions of every rune of b for the longest-match scan.
	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(ra), 0, len(rb)}}

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		besti, bestj, bestsize := longestMatch(ra, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if bestsize == 0 {
			continue
		}
		matched += bestsize
		queue = append(queue, span{s.alo, besti, s.blo, bestj})
		queue = append(queue, span{besti + bestsize, s.ahi, bestj + bestsize, s.bhi})
	}

	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

func longestMatch(ra []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0
	// j2len[j] = length of the match ending at a[i-1], b[j-1]
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[ra[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}
