// Package tastematch embeds the song and movie matching core in a Go program,
// without the HTTP or MCP transports.
//
// The corpus is loaded once at construction, from JSON or MessagePack files
// or from a Valkey/Redis key seeded by cmd/seed:
//
//	client, _ := tastematch.New(ctx,
//	    tastematch.WithFiles("data/songs.json", "data/movies.json"),
//	    tastematch.WithDerivedMovieFeatures(),
//	)
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, tastematch.Songs, "queen")
//	sug, _ := client.Suggest(ctx, tastematch.Movies, "nol")
//	recs, _ := client.Recommend(ctx, tastematch.Songs, hits[0].ID)
//
// Errors wrap the sentinels in errors.go; use errors.Is and errors.As.
package tastematch
