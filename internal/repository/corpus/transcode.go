package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
)

// Transcode re-encodes a collection payload from one codec to another,
// validating it against the record schema on the way.
func Transcode(c category.Category, data []byte, from, to Codec) ([]byte, error) {
	var doc any
	switch c {
	case category.Songs:
		doc = &songsDoc{}
	case category.Movies:
		doc = &moviesDoc{}
	default:
		return nil, fmt.Errorf("unknown category %q", c)
	}
	if err := from.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	out, err := to.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c, err)
	}
	return out, nil
}

// Seed copies every collection from src into dst, re-encoding as needed.
// Collections missing at src are skipped. It returns the categories written.
func Seed(ctx context.Context, src Source, from Codec, dst *KVSource, to Codec) ([]category.Category, error) {
	var written []category.Category
	for _, c := range category.All {
		data, err := src.Fetch(ctx, c)
		if err != nil {
			if errors.Is(err, ErrMissing) {
				continue
			}
			return written, fmt.Errorf("fetch %s: %w", c, err)
		}
		payload, err := Transcode(c, data, from, to)
		if err != nil {
			return written, err
		}
		if err := dst.Put(ctx, c, payload); err != nil {
			return written, err
		}
		written = append(written, c)
	}
	return written, nil
}
