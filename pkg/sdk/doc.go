// Package mediadex embeds the mediadex media search service in a Go program.
//
// The client talks to Elasticsearch (or an in-memory fixture set) directly,
// with the same normalization, sanitization and validation as the HTTP API:
//
//	client, _ := mediadex.New(ctx,
//	    mediadex.WithElasticsearch("es.internal", 9200, "media"),
//	    mediadex.WithBasicAuth("reader", os.Getenv("ES_PASSWORD")),
//	    mediadex.WithImageBaseURL("https://www.imago-images.de"),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, mediadex.SearchQuery{
//	    Query:        "sunset",
//	    Photographer: "Jane Doe",
//	    Size:         20,
//	})
//	item, _ := client.Get(ctx, page.Items[0].ID)
//
// Point lookups and the photographer list can be cached in Redis with
// WithRedisCache. Logging (slog) and Prometheus metrics are opt-in.
package mediadex
