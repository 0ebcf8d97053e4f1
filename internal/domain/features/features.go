// Package features derives and normalizes entity feature vectors.
package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tastematch/internal/domain/query"
)

// MovieDim is the length of a derived movie vector.
const MovieDim = 9

const (
	minFeature = 0.1
	maxFeature = 1.0
	baseYear   = 1940
	yearSpan   = 80.0
)

var defaultProfile = [MovieDim]float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7, 0.7}

// genreProfiles keyed by normalized genre.
var genreProfiles = map[string][MovieDim]float64{
	"action":    {0.8, 0.9, 0.7, 0.8, 0.6, 0.7, 0.8, 0.9, 0.7},
	"adventure": {0.7, 0.8, 0.8, 0.7, 0.7, 0.8, 0.75, 0.85, 0.75},
	"animation": {0.6, 0.5, 0.9, 0.6, 0.9, 0.8, 0.55, 0.75, 0.85},
	"comedy":    {0.6, 0.5, 0.8, 0.7, 0.9, 0.8, 0.55, 0.75, 0.85},
	"crime":     {0.8, 0.7, 0.6, 0.9, 0.5, 0.7, 0.75, 0.75, 0.6},
	"drama":     {0.9, 0.6, 0.7, 0.6, 0.7, 0.9, 0.75, 0.8, 0.8},
	"fantasy":   {0.7, 0.8, 0.9, 0.7, 0.8, 0.8, 0.75, 0.85, 0.8},
	"horror":    {0.7, 0.8, 0.5, 0.9, 0.4, 0.6, 0.75, 0.7, 0.5},
	"musical":   {0.6, 0.5, 0.9, 0.6, 0.9, 0.8, 0.55, 0.75, 0.85},
	"mystery":   {0.8, 0.7, 0.7, 0.8, 0.6, 0.7, 0.75, 0.75, 0.65},
	"romance":   {0.7, 0.6, 0.8, 0.6, 0.8, 0.8, 0.65, 0.7, 0.8},
	"sci-fi":    {0.7, 0.9, 0.8, 0.8, 0.7, 0.6, 0.8, 0.85, 0.75},
	"thriller":  {0.8, 0.8, 0.6, 0.9, 0.5, 0.7, 0.8, 0.75, 0.65},
	"war":       {0.8, 0.7, 0.6, 0.8, 0.5, 0.8, 0.75, 0.7, 0.65},
}

// MovieVector derives a movie embedding from its genre profile, rating (0-10) and year.
// Dimension 0 and 2 follow the rating, dimension 1 blends rating and recency,
// the rest are damped by rating.
func MovieVector(genre string, rating float64, year int) []float64 {
	profile, ok := genreProfiles[query.Normalize(genre)]
	if !ok {
		profile = defaultProfile
	}
	ratingFactor := rating / 10
	yearFactor := math.Min(float64(year-baseYear)/yearSpan, 1)

	out := make([]float64, MovieDim)
	for i, base := range profile {
		var v float64
		switch i {
		case 0, 2:
			v = base * ratingFactor
		case 1:
			v = base * (ratingFactor + yearFactor) / 2
		default:
			v = base * (0.7 + 0.3*ratingFactor)
		}
		out[i] = round2(clamp(v, minFeature, maxFeature))
	}
	return out
}

// ParseMinutes reads a "142 min" style duration.
func ParseMinutes(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty duration")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return n, nil
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Standardize rescales each column to zero mean and unit population variance.
// Columns with zero variance become 0. Rows whose length differs from the first
// non-empty row are returned unchanged.
func Standardize(rows [][]float64) [][]float64 {
	dim := 0
	for _, r := range rows {
		if len(r) > 0 {
			dim = len(r)
			break
		}
	}
	out := make([][]float64, len(rows))
	if dim == 0 {
		copy(out, rows)
		return out
	}

	mean := make([]float64, dim)
	n := 0
	for _, r := range rows {
		if len(r) != dim {
			continue
		}
		n++
		for j, v := range r {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	std := make([]float64, dim)
	for _, r := range rows {
		if len(r) != dim {
			continue
		}
		for j, v := range r {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(n))
	}

	for i, r := range rows {
		if len(r) != dim {
			out[i] = r
			continue
		}
		z := make([]float64, dim)
		for j, v := range r {
			if std[j] > 0 {
				z[j] = (v - mean[j]) / std[j]
			}
		}
		out[i] = z
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
