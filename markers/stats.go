package markers

import "math"

// median returns the median (k = n/2 order statistic) of a via
// Hoare-partition quickselect, mutating a in place. An empty slice
// returns 0 and ok=false, signaling an "empty reduction" to the caller.
func median(a []float64) (value float64, ok bool) {
	if len(a) == 0 {
		return 0, false
	}
	return kthBiggest(a, len(a)/2), true
}

// kthBiggest returns the k-th order statistic (0-indexed, ascending) of
// a, mutating a in place.
func kthBiggest(a []float64, k int) float64 {
	if k < 0 {
		k = 0
	}
	if k >= len(a) {
		k = len(a) - 1
	}
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := hoarePartition(a, lo, hi)
		if k <= p {
			hi = p
		} else {
			lo = p + 1
		}
	}
	return a[k]
}

func hoarePartition(a []float64, lo, hi int) int {
	pivot := a[(lo+hi)/2]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if a[i] >= pivot {
				break
			}
		}
		for {
			j--
			if a[j] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		a[i], a[j] = a[j], a[i]
	}
}

// stdDev returns the standard deviation of data[start : start+length],
// clamped into range and truncated if the requested window runs past
// the end of data. Returns ok=false if fewer than 3 samples remain.
func stdDev(data []float64, start, length int) (value float64, ok bool) {
	if start+length > len(data) {
		length = len(data) - start
		if length < 3 {
			return 0, false
		}
	}

	var sum, sumSq float64
	for i := start; i < start+length; i++ {
		sum += data[i]
		sumSq += data[i] * data[i]
	}
	n := float64(length)
	avg := sum / n
	variance := sumSq/n - avg*avg
	if variance > 0 {
		return math.Sqrt(variance), true
	}
	return 0, true
}

// movingStd computes a length-len(data) moving standard deviation with
// window length stdLen, via an incremental sliding-window update that
// tapers at both ends (the window narrows near the boundaries rather
// than being skipped).
func movingStd(data []float64, stdLen int) []float64 {
	n := len(data)
	out := make([]float64, n)
	if stdLen < 1 {
		stdLen = 1
	}
	halfWin := stdLen / 2
	invWinLen := 1.0 / float64(stdLen)

	var sum, sumSq float64
	i := 0
	for ; i < stdLen && i < n; i++ {
		sum += data[i]
		sumSq += data[i] * data[i]
		avg := sum / float64(i+1)
		if i >= halfWin {
			v := sumSq/float64(i+1) - avg*avg
			if v > 0 {
				v = math.Sqrt(v)
			} else {
				v = 0
			}
			out[i-halfWin] = v
		}
	}
	for ; i < n; i++ {
		sum += data[i] - data[i-stdLen]
		sumSq += data[i]*data[i] - data[i-stdLen]*data[i-stdLen]
		avg := sum * invWinLen
		v := sumSq*invWinLen - avg*avg
		if v > 0 {
			v = math.Sqrt(v)
		} else {
			v = 0
		}
		out[i-halfWin] = v
	}
	for ; i < n+halfWin; i++ {
		sum -= data[i-stdLen]
		sumSq -= data[i-stdLen] * data[i-stdLen]
		remaining := float64(stdLen - 1 - (i - n))
		avg := sum / remaining
		v := sumSq/remaining - avg*avg
		if v > 0 {
			v = math.Sqrt(v)
		} else {
			v = 0
		}
		if i-halfWin < n {
			out[i-halfWin] = v
		}
	}
	return out
}
