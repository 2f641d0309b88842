package embedding

// SplitChunks cuts text into fixed-size character chunks. It is deliberately
// not token-aware; the chunks are embedded independently and averaged. Cuts
// fall on rune boundaries so no chunk carries a torn UTF-8 sequence.
func SplitChunks(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// MeanVector averages chunk embeddings into one vector of dim. Vectors of the
// wrong length are fitted first so a single drifting chunk cannot skew the
// output shape.
func MeanVector(vectors [][]float32, dim int) []float32 {
	if len(vectors) == 0 {
		return ZeroVector(dim)
	}

	sum := make([]float64, dim)
	for _, v := range vectors {
		fitted := FitDimension(v, dim)
		for i, val := range fitted {
			sum[i] += float64(val)
		}
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(len(vectors)))
	}
	return mean
}

// FitDimension pads with zeros or truncates to dim. Correcting an
// already-correct vector is a no-op; the input is never mutated.
func FitDimension(vector []float32, dim int) []float32 {
	if len(vector) == dim {
		return vector
	}
	fitted := make([]float32, dim)
	copy(fitted, vector)
	return fitted
}
