// Package ragdex embeds the ragdex claims backend in a Go program: the same
// query, aggregation, group-by analytics and batch upload the HTTP API and the
// ingestion CLI use, wired directly against Redis Stack.
//
//	client, _ := ragdex.New(ctx,
//	    ragdex.WithRedis("localhost:6379", ""),
//	    ragdex.WithIndex("ragdex:", "cms1500-claims"),
//	)
//	defer client.Close()
//
//	avg, _ := client.Aggregate(ctx, "claimAmount", "avg", "@patientState:{CA}", "")
//	report, _ := client.Analyze(ctx, ragdex.GroupParams{GroupBy: "providerNPI", MetricField: "claimAmount", MetricKind: "sum"})
//
// Uploading requires an Embedder (WithEmbedder); querying does not.
package ragdex
